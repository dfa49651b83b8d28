package setup

import (
	"github.com/itchan-dev/supportdesk/frontend/internal/apiclient"
	"github.com/itchan-dev/supportdesk/frontend/internal/handler"
	"github.com/itchan-dev/supportdesk/shared/config"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Client  *apiclient.APIClient
	Handler *handler.Handler
}

// SetupDependencies wires the webhook client into the browser handlers.
// The host is useless without either webhook, so both missing is an error;
// one missing is logged and reported per request.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	hooks := cfg.Public.Webhooks
	if hooks.FormURL == "" && hooks.ChatURL == "" {
		return nil, &internal_errors.ConfigurationError{Message: "neither webhooks.form_url nor webhooks.chat_url is set"}
	}
	if hooks.FormURL == "" {
		logger.Log.Warn("form webhook is not configured, submissions will fail")
	}
	if hooks.ChatURL == "" {
		logger.Log.Warn("chat webhook is not configured, chat will answer with an apology")
	}

	client := apiclient.New(cfg)
	return &Dependencies{
		Config:  cfg,
		Client:  client,
		Handler: handler.New(client, cfg),
	}, nil
}
