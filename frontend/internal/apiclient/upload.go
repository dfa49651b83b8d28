package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/domain"
	"github.com/itchan-dev/supportdesk/shared/encoder"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
)

// UploadFile sends one attachment through the upload proxy, which holds the
// storage credential. A failed upload is a NetworkError whose Body is the
// proxy's {error, details} document.
func (c *APIClient) UploadFile(ctx context.Context, a *domain.Attachment) (*api.UploadResponse, error) {
	content, err := encoder.Encode(a)
	if err != nil {
		return nil, err
	}

	respBody, err := c.postJSON(ctx, c.ProxyURL, api.UploadRequest{FileName: a.Name, FileContent: content})
	if err != nil {
		return nil, err
	}

	var resp api.UploadResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("cannot decode upload response: %w", err)
	}
	if !resp.Success {
		return nil, &internal_errors.NetworkError{StatusCode: 200, Body: string(respBody), Err: errors.New("proxy did not confirm the upload")}
	}
	return &resp, nil
}

// UploadError extracts the proxy's error document from an UploadFile failure.
func UploadError(err error) (api.ErrorResponse, bool) {
	var netErr *internal_errors.NetworkError
	if !errors.As(err, &netErr) || netErr.Body == "" {
		return api.ErrorResponse{}, false
	}
	var resp api.ErrorResponse
	if json.Unmarshal([]byte(netErr.Body), &resp) != nil || resp.Error == "" {
		return api.ErrorResponse{}, false
	}
	return resp, true
}
