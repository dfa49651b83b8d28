package apiclient

import (
	"context"

	"github.com/itchan-dev/supportdesk/shared/api"
)

// SendChat posts one chat turn and returns the raw webhook response body.
// Interpreting the body is left to the chat package.
func (c *APIClient) SendChat(ctx context.Context, req api.ChatRequest) ([]byte, error) {
	return c.postJSON(ctx, c.ChatURL, req)
}
