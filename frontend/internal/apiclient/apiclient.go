package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
	"github.com/itchan-dev/supportdesk/shared/utils"
)

const maxErrorBodySize = 64 << 10

// ProgressFunc receives upload progress in percent, 0 to 100.
type ProgressFunc func(percent int)

// Transport delivers one submission to the form webhook.
type Transport interface {
	Send(ctx context.Context, payload *domain.SubmissionPayload, progress ProgressFunc) error
}

// APIClient struct handles all communication with the webhooks and the upload proxy.
type APIClient struct {
	FormURL    string
	ChatURL    string
	ProxyURL   string
	HttpClient *http.Client
	Transport  Transport
}

// New creates a client using the transport selected by webhooks.transport.
func New(cfg *config.Config) *APIClient {
	wh := cfg.Public.Webhooks
	httpClient := &http.Client{}

	var transport Transport
	switch wh.Transport {
	case config.TransportJSON:
		transport = &JSONTransport{URL: wh.FormURL, HttpClient: httpClient, Timeout: wh.Timeout}
	default:
		transport = &MultipartTransport{URL: wh.FormURL, HttpClient: httpClient}
	}

	return &APIClient{
		FormURL:    wh.FormURL,
		ChatURL:    wh.ChatURL,
		ProxyURL:   cfg.Public.Proxy.URL,
		HttpClient: httpClient,
		Transport:  transport,
	}
}

// Submit validates payload and hands it to the transport.
// Validation failures never touch the network.
func (c *APIClient) Submit(ctx context.Context, payload *domain.SubmissionPayload, progress ProgressFunc) error {
	if err := ValidatePayload(payload); err != nil {
		return err
	}
	if progress == nil {
		progress = func(int) {}
	}

	start := time.Now()
	err := c.Transport.Send(ctx, payload, progress)
	if err != nil {
		logger.Log.Warn("submission failed", "flow", payload.SupportFlow, "attachments", len(payload.Attachments), "error", err)
		return err
	}
	logger.Log.Info("submission sent", "flow", payload.SupportFlow, "attachments", len(payload.Attachments), "duration", time.Since(start))
	return nil
}

// ValidatePayload checks required fields and that the case type belongs to the flow.
func ValidatePayload(p *domain.SubmissionPayload) error {
	if p == nil {
		return &internal_errors.ValidationError{Message: "empty submission"}
	}
	if err := utils.Validate(p); err != nil {
		return err
	}
	if !domain.IsCaseType(p.SupportFlow, p.CaseType) {
		return &internal_errors.ValidationError{Message: fmt.Sprintf("case type %q is not available for %s support", p.CaseType, p.SupportFlow)}
	}
	return nil
}

// postJSON is the single helper for JSON requests to webhooks and the proxy.
// A non-2xx answer becomes a NetworkError carrying status and body.
func (c *APIClient) postJSON(ctx context.Context, url string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return doJSON(ctx, c.HttpClient, url, data)
}

func doJSON(ctx context.Context, client *http.Client, url string, data []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, requestError(ctx, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, requestError(ctx, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// requestError turns an expired deadline into a TimeoutError and anything else into a NetworkError.
func requestError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &internal_errors.TimeoutError{Err: err}
	}
	return &internal_errors.NetworkError{Err: err}
}

func statusError(status int, body []byte) error {
	if len(body) > maxErrorBodySize {
		body = body[:maxErrorBodySize]
	}
	return &internal_errors.NetworkError{StatusCode: status, Body: string(body)}
}
