package notify

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/gomail.v2"

	"github.com/sozhaa-tech/chatbot-api/internal/config"
)

// SMTPEmail sends mail through a plain SMTP relay. It exists for
// deployments without a SendGrid account.
type SMTPEmail struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPEmail creates an SMTP-backed email provider.
func NewSMTPEmail(cfg config.EmailConfig) *SMTPEmail {
	return &SMTPEmail{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.From,
	}
}

func (s *SMTPEmail) Send(ctx context.Context, msg EmailMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTMLBody)

	if msg.Attachment != nil {
		content := msg.Attachment.Content
		m.Attach(msg.Attachment.Filename,
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(content)
				return err
			}),
			gomail.SetHeader(map[string][]string{"Content-Type": {xlsxMIME}}),
		)
	}

	// gomail has no context support; honor cancellation before dialing.
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "smtp: context done")
	}

	return eris.Wrap(s.dialer.DialAndSend(m), "smtp: send")
}
