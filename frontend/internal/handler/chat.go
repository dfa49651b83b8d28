package handler

import (
	"errors"
	"net/http"

	"github.com/itchan-dev/supportdesk/frontend/internal/chat"
	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/utils"
)

const maxChatBody = 64 << 10

// StartChat opens a session and returns it with the welcome message.
func (h *Handler) StartChat(w http.ResponseWriter, r *http.Request) {
	lang := h.locale.Detect(r).Language
	s := h.newSession(lang)

	utils.WriteJSON(w, http.StatusOK, api.ChatSessionResponse{
		SessionID: s.ID(),
		Language:  lang,
		Messages:  s.Messages(),
	})
}

// SendChat relays one message. An unknown or expired session id starts a new
// session; the response always carries the id to use next. When the chat
// webhook fails the apology is still returned, with 502.
func (h *Handler) SendChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxChatBody)
	var body api.ChatSendRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	lang := h.locale.Detect(r).Language
	s, ok := h.sessions.get(body.SessionID)
	if ok {
		s.SetLanguage(lang)
	} else {
		s = h.newSession(lang)
	}

	reply, err := s.Send(r.Context(), body.Message)
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		utils.WriteError(w, http.StatusBadRequest, "Message is empty", "")
		return
	case errors.Is(err, chat.ErrSendInFlight):
		utils.WriteError(w, http.StatusConflict, "Previous message is still being answered", "")
		return
	}

	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
	}
	utils.WriteJSON(w, status, api.ChatSendResponse{
		SessionID: s.ID(),
		Reply:     reply.Content,
		Language:  lang,
	})
}

func (h *Handler) newSession(lang string) *chat.Session {
	s := chat.NewSession(h.client, lang, h.cfg.Public.ChatWelcome)
	h.sessions.add(s)
	return s
}
