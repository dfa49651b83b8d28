// Package chat relays a conversation to the chat webhook and turns its
// loosely shaped answers into display text.
package chat

import (
	"context"
	"errors"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

const (
	EmptyResponseMessage      = "Empty response from server. Please check the chat workflow execution logs."
	UnexpectedResponseMessage = "I received your message but got an unexpected response format."
	ErrorMessage              = "An error occurred while sending your message. Please try again."
)

var (
	ErrEmptyMessage = &internal_errors.ValidationError{Message: "message is empty"}
	ErrSendInFlight = errors.New("a chat message is already being sent")
)

// Sender is satisfied by *apiclient.APIClient.
type Sender interface {
	SendChat(ctx context.Context, req api.ChatRequest) ([]byte, error)
}

// Session is one conversation. Messages are append-only and live in memory only.
type Session struct {
	id     string
	client Sender
	policy *bluemonday.Policy
	now    func() time.Time

	mu       sync.Mutex
	language string
	messages []domain.ChatMessage
	sending  bool
}

// NewSession starts a conversation seeded with the welcome message, if any.
func NewSession(client Sender, language, welcome string) *Session {
	s := &Session{
		id:       uuid.NewString(),
		client:   client,
		policy:   bluemonday.StrictPolicy(),
		now:      time.Now,
		language: language,
	}
	if welcome != "" {
		s.messages = append(s.messages, domain.ChatMessage{Role: domain.RoleAssistant, Content: welcome, Timestamp: s.now()})
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) SetLanguage(language string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.language = language
}

// Messages returns a copy of the conversation so far.
func (s *Session) Messages() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Send appends text as a user turn, posts it with the prior history and
// appends the assistant's answer. Transport failures still append a fixed
// apology so the conversation shows what happened; the error is returned too.
func (s *Session) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.sending {
		s.mu.Unlock()
		return domain.ChatMessage{}, ErrSendInFlight
	}
	s.sending = true
	req := api.ChatRequest{
		Message:             text,
		SessionID:           s.id,
		ConversationHistory: historyOf(s.messages),
		Language:            s.language,
	}
	s.messages = append(s.messages, domain.ChatMessage{Role: domain.RoleUser, Content: text, Timestamp: s.now()})
	s.mu.Unlock()

	body, err := s.client.SendChat(ctx, req)
	var content string
	if err != nil {
		logger.Log.Error("chat webhook failed", "session", s.id, "error", err)
		content = ErrorMessage
	} else {
		content = s.reply(body)
	}

	reply := domain.ChatMessage{Role: domain.RoleAssistant, Content: content, Timestamp: s.now()}
	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.sending = false
	s.mu.Unlock()
	return reply, err
}

func (s *Session) reply(body []byte) string {
	payload, ok := Normalize(body)
	if !ok {
		return EmptyResponseMessage
	}
	text, rule, ok := Extract(payload)
	if !ok {
		logger.Log.Warn("chat response had no recognizable reply", "session", s.id)
		return UnexpectedResponseMessage
	}
	logger.Log.Debug("chat reply extracted", "session", s.id, "rule", rule)

	// markup is stripped; the stored content is plain text
	clean := strings.TrimSpace(html.UnescapeString(s.policy.Sanitize(text)))
	if clean == "" {
		return UnexpectedResponseMessage
	}
	return clean
}

func historyOf(msgs []domain.ChatMessage) []api.ChatHistory {
	history := make([]api.ChatHistory, len(msgs))
	for i, m := range msgs {
		history[i] = api.ChatHistory{
			Role:      string(m.Role),
			Content:   m.Content,
			Timestamp: m.Timestamp.UTC().Format(time.RFC3339Nano),
		}
	}
	return history
}
