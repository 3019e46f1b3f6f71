package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sozhaa-tech/chatbot-api/internal/generate"
	"github.com/sozhaa-tech/chatbot-api/internal/model"
	"github.com/sozhaa-tech/chatbot-api/internal/notify"
	"github.com/sozhaa-tech/chatbot-api/internal/prompt"
	"github.com/sozhaa-tech/chatbot-api/internal/transcript"
)

const (
	attachmentName = "full_chat_history.xlsx"

	// Row limits for the HTML transcript body. End-of-chat mails carry
	// more context than mid-chat updates.
	updateRows = 100
	finalRows  = 200
)

// Service routes a chat turn: classify, generate or short-circuit,
// persist, and fan out notifications in the background.
type Service struct {
	prompts    *prompt.Builder
	generator  generate.Generator
	store      transcript.Store
	email      notify.Email
	messenger  notify.Messenger
	dispatcher *notify.Dispatcher

	replies       Replies
	companyEmail  string
	companyPhone  string
	countryPrefix string
}

// NewService wires the chat pipeline together.
func NewService(
	prompts *prompt.Builder,
	generator generate.Generator,
	store transcript.Store,
	email notify.Email,
	messenger notify.Messenger,
	dispatcher *notify.Dispatcher,
	replies Replies,
	companyEmail, companyPhone, countryPrefix string,
) *Service {
	return &Service{
		prompts:       prompts,
		generator:     generator,
		store:         store,
		email:         email,
		messenger:     messenger,
		dispatcher:    dispatcher,
		replies:       replies,
		companyEmail:  companyEmail,
		companyPhone:  companyPhone,
		countryPrefix: countryPrefix,
	}
}

// Handle processes one chat turn and always produces a reply. Generation
// and notification failures degrade to canned text and logged errors;
// they never surface as a failed request.
func (s *Service) Handle(ctx context.Context, req model.ChatRequest) model.ChatResponse {
	switch Classify(req.Message) {
	case KindEndOfChat:
		return s.handleEndOfChat(ctx, req)
	case KindSupport:
		return s.handleSupport(ctx, req)
	default:
		return s.handleTurn(ctx, req)
	}
}

func (s *Service) handleEndOfChat(ctx context.Context, req model.ChatRequest) model.ChatResponse {
	reply := s.replies.ThankYou

	// Capture the whole conversation, not just the closing pair.
	entries := make([]model.TranscriptEntry, 0, len(req.History)+2)
	for _, turn := range req.CleanHistory() {
		entries = append(entries, model.NewEntry(model.Role(turn.Role), turn.Message, req.UserDetails, req.Service))
	}
	entries = append(entries,
		model.NewEntry(model.RoleUser, req.Message, req.UserDetails, req.Service),
		model.NewEntry(model.RoleAssistant, reply, req.UserDetails, req.Service),
	)

	s.persist(ctx, req, entries)

	user := req.UserDetails
	body := s.transcriptBody(ctx, user, req.Service, entries, finalRows)

	s.enqueueEmail("final transcript to company", notify.EmailMessage{
		To:       s.companyEmail,
		Subject:  fmt.Sprintf("Chat Ended — %s", user.Name),
		HTMLBody: body,
	}, true)
	if user.Email != "" {
		s.enqueueEmail("final transcript to user", notify.EmailMessage{
			To:       user.Email,
			Subject:  "Sozhaa Tech — Chat Summary",
			HTMLBody: body + "<p>🙏 Thank you for chatting with us. Our team will contact you soon.</p>",
		}, true)
	}

	s.enqueueMessage("chat-end alert to company", s.companyPhone, s.replies.CompanyAlert)
	if phone := model.NormalizePhone(user.Phone, s.countryPrefix); phone != "" {
		s.enqueueMessage("chat-end thanks to user", phone, s.replies.UserThanks)
	}

	return model.ChatResponse{Reply: reply}
}

func (s *Service) handleSupport(ctx context.Context, req model.ChatRequest) model.ChatResponse {
	user := req.UserDetails
	alert := notify.SupportAlertHTML(user, req.Message)

	s.enqueueEmail("support alert to company", notify.EmailMessage{
		To:       s.companyEmail,
		Subject:  "⚠ Sozhaa Tech — Support Request",
		HTMLBody: alert,
	}, false)
	if user.Email != "" {
		s.enqueueEmail("support confirmation to user", notify.EmailMessage{
			To:       user.Email,
			Subject:  "Sozhaa Tech — Support Request Received",
			HTMLBody: "<p>We received your request. Our team will contact you soon 🚀</p>",
		}, false)
	}

	return model.ChatResponse{Reply: s.replies.SupportAck}
}

func (s *Service) handleTurn(ctx context.Context, req model.ChatRequest) model.ChatResponse {
	conversation := s.prompts.Conversation(req.CleanHistory(), req.Message)
	answer := s.generator.Reply(ctx, conversation)

	entries := []model.TranscriptEntry{
		model.NewEntry(model.RoleUser, req.Message, req.UserDetails, req.Service),
		model.NewEntry(model.RoleAssistant, answer, req.UserDetails, req.Service),
	}
	s.persist(ctx, req, entries)

	user := req.UserDetails
	body := s.transcriptBody(ctx, user, req.Service, entries, updateRows)

	s.enqueueEmail("turn transcript to company", notify.EmailMessage{
		To:       s.companyEmail,
		Subject:  fmt.Sprintf("Chat update — %s", user.Name),
		HTMLBody: body,
	}, true)
	if user.Email != "" {
		s.enqueueEmail("turn transcript to user", notify.EmailMessage{
			To:       user.Email,
			Subject:  "Sozhaa Tech — Your Chat Transcript",
			HTMLBody: body,
		}, true)
	}

	return model.ChatResponse{Reply: answer}
}

// persist writes the exchange synchronously. A storage failure is logged
// and the turn continues; the visitor still gets their reply.
func (s *Service) persist(ctx context.Context, req model.ChatRequest, entries []model.TranscriptEntry) {
	rec := model.SessionRecord{
		ID:         uuid.NewString(),
		User:       req.UserDetails,
		Service:    req.Service,
		Transcript: entries,
		CapturedAt: time.Now().UTC(),
	}
	if err := s.store.Append(ctx, rec); err != nil {
		zap.L().Error("chat: persist transcript", zap.Error(err), zap.String("record_id", rec.ID))
	}
}

// transcriptBody renders the HTML email body from recent stored entries,
// falling back to the in-request entries when the store cannot be read.
func (s *Service) transcriptBody(ctx context.Context, user model.UserDetails, service string, fallback []model.TranscriptEntry, limit int) string {
	rows, err := s.store.Recent(ctx, limit)
	if err != nil || len(rows) == 0 {
		if err != nil {
			zap.L().Warn("chat: read recent transcript", zap.Error(err))
		}
		rows = fallback
	}
	return notify.TranscriptHTML(user, service, rows)
}

func (s *Service) enqueueEmail(name string, msg notify.EmailMessage, attach bool) {
	if strings.TrimSpace(msg.To) == "" {
		return
	}
	s.dispatcher.Enqueue(name, func(ctx context.Context) error {
		out := msg
		if attach {
			content, err := s.store.ExportXLSX(ctx)
			if err != nil {
				zap.L().Warn("chat: export transcript snapshot", zap.Error(err))
			} else if len(content) > 0 {
				out.Attachment = &notify.Attachment{Filename: attachmentName, Content: content}
			}
		}
		return s.email.Send(ctx, out)
	})
}

func (s *Service) enqueueMessage(name, to, text string) {
	if to == "" {
		return
	}
	s.dispatcher.Enqueue(name, func(ctx context.Context) error {
		return s.messenger.Send(ctx, to, text)
	})
}
