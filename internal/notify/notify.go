package notify

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sozhaa-tech/chatbot-api/internal/config"
	"github.com/sozhaa-tech/chatbot-api/pkg/sendgrid"
	"github.com/sozhaa-tech/chatbot-api/pkg/whatsapp"
)

// Email sends one HTML email. Implementations are swappable providers
// behind the same capability.
type Email interface {
	Send(ctx context.Context, msg EmailMessage) error
}

// EmailMessage is a provider-independent outbound email.
type EmailMessage struct {
	To         string
	Subject    string
	HTMLBody   string
	Attachment *Attachment
}

// Attachment is an optional binary attachment.
type Attachment struct {
	Filename string
	Content  []byte
}

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Messenger pushes one plain-text message to a recipient.
type Messenger interface {
	Send(ctx context.Context, to, text string) error
}

// NewEmail constructs the email provider selected by cfg.Provider.
func NewEmail(cfg config.EmailConfig) (Email, error) {
	switch cfg.Provider {
	case "", "sendgrid":
		return &SendGridEmail{client: sendgrid.NewClient(cfg.SendgridKey), from: cfg.From}, nil
	case "smtp":
		return NewSMTPEmail(cfg), nil
	default:
		return nil, eris.Errorf("notify: unknown email provider %q", cfg.Provider)
	}
}

// NewMessenger constructs the messaging provider selected by cfg.Provider.
func NewMessenger(cfg config.MessagingConfig) (Messenger, error) {
	switch cfg.Provider {
	case "", "whatsapp":
		client := whatsapp.NewClient(cfg.WhatsAppToken, cfg.PhoneNumberID,
			whatsapp.WithBaseURL(cfg.GraphBaseURL))
		return &WhatsAppMessenger{client: client}, nil
	case "telegram":
		return NewTelegramMessenger(cfg.TelegramToken, cfg.TelegramChatID)
	default:
		return nil, eris.Errorf("notify: unknown messaging provider %q", cfg.Provider)
	}
}

// SendGridEmail sends mail through the SendGrid v3 API.
type SendGridEmail struct {
	client sendgrid.Client
	from   string
}

func (s *SendGridEmail) Send(ctx context.Context, msg EmailMessage) error {
	mail := sendgrid.Mail{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HTMLBody: msg.HTMLBody,
	}
	if msg.Attachment != nil {
		mail.Attachments = []sendgrid.Attachment{{
			Filename: msg.Attachment.Filename,
			Type:     xlsxMIME,
			Content:  msg.Attachment.Content,
		}}
	}
	return s.client.Send(ctx, mail)
}

// WhatsAppMessenger pushes text through the WhatsApp Cloud API.
type WhatsAppMessenger struct {
	client whatsapp.Client
}

func (w *WhatsAppMessenger) Send(ctx context.Context, to, text string) error {
	return w.client.SendText(ctx, to, text)
}
