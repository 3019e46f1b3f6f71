package notify

import (
	"html/template"
	"strings"
	"time"

	"github.com/sozhaa-tech/chatbot-api/internal/model"
)

var transcriptTmpl = template.Must(template.New("transcript").Parse(`<h2>Sozhaa Tech — Chat Transcript</h2>
<p><b>Name:</b> {{.Name}}<br/>
<b>Email:</b> {{.Email}}<br/>
<b>Phone:</b> {{.Phone}}<br/>
<b>Service:</b> {{.Service}}<br/>
<b>Captured:</b> {{.Captured}}</p>
<hr/>
<h3>Conversation</h3>
<table border="1" cellpadding="6" cellspacing="0" style="border-collapse:collapse;">
<thead><tr style="background:#f2f2f2"><th>Time</th><th>Role</th><th>Message</th></tr></thead><tbody>
{{range .Rows}}<tr><td>{{.Time}}</td><td>{{.Role}}</td><td>{{.Message}}</td></tr>
{{end}}</tbody></table><hr/><p>End of transcript.</p>`))

var supportTmpl = template.Must(template.New("support").Parse(`<h2>⚠ Support Request Alert</h2>
<p>User requested support at {{.At}}</p>
<p><b>Name:</b> {{.Name}}<br/>
<b>Email:</b> {{.Email}}<br/>
<b>Phone:</b> {{.Phone}}</p>
<p><b>Message:</b> {{.Message}}</p>`))

type transcriptView struct {
	Name     string
	Email    string
	Phone    string
	Service  string
	Captured string
	Rows     []rowView
}

type rowView struct {
	Time    string
	Role    string
	Message template.HTML
}

// TranscriptHTML renders the email body for a transcript: requester
// details followed by a table of the given entries.
func TranscriptHTML(user model.UserDetails, service string, entries []model.TranscriptEntry) string {
	view := transcriptView{
		Name:     user.Name,
		Email:    user.Email,
		Phone:    user.Phone,
		Service:  service,
		Captured: time.Now().UTC().Format(time.RFC3339),
	}
	for _, e := range entries {
		escaped := template.HTMLEscapeString(e.Message)
		view.Rows = append(view.Rows, rowView{
			Time: e.Timestamp.UTC().Format(time.RFC3339),
			Role: string(e.Role),
			// Escaped above; only the inserted line breaks are markup.
			Message: template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>")),
		})
	}

	var b strings.Builder
	_ = transcriptTmpl.Execute(&b, view)
	return b.String()
}

// SupportAlertHTML renders the body of the support-request alert sent
// to the company inbox.
func SupportAlertHTML(user model.UserDetails, message string) string {
	var b strings.Builder
	_ = supportTmpl.Execute(&b, struct {
		At      string
		Name    string
		Email   string
		Phone   string
		Message string
	}{
		At:      time.Now().UTC().Format(time.RFC3339),
		Name:    user.Name,
		Email:   user.Email,
		Phone:   user.Phone,
		Message: message,
	})
	return b.String()
}
