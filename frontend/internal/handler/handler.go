// Package handler serves the support form and the chat widget to browsers
// and relays both to the webhooks.
package handler

import (
	"github.com/itchan-dev/supportdesk/frontend/internal/chat"
	"github.com/itchan-dev/supportdesk/frontend/internal/form"
	"github.com/itchan-dev/supportdesk/frontend/internal/locale"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/validation"
)

// Client is satisfied by *apiclient.APIClient.
type Client interface {
	form.Submitter
	chat.Sender
}

type Handler struct {
	client   Client
	cfg      *config.Config
	locale   *locale.Context
	limits   validation.Limits
	sessions *sessionStore
}

func New(client Client, cfg *config.Config) *Handler {
	return &Handler{
		client:   client,
		cfg:      cfg,
		locale:   locale.New(cfg.Public.Languages, cfg.Public.DefaultLanguage),
		limits:   validation.LimitsFromConfig(cfg.Public.Attachments),
		sessions: newSessionStore(cfg.Public.Web.SessionTTL),
	}
}
