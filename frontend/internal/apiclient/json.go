package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/domain"
	"github.com/itchan-dev/supportdesk/shared/encoder"
)

const DefaultJSONTimeout = 30 * time.Second

// JSONTransport encodes every attachment to base64 and posts one JSON document.
// Progress is reported in milestones: 0, up to 25 while encoding, 50 when the
// request is dispatched and 100 on a confirmed response.
type JSONTransport struct {
	URL        string
	HttpClient *http.Client
	Timeout    time.Duration
}

func (t *JSONTransport) Send(ctx context.Context, payload *domain.SubmissionPayload, progress ProgressFunc) error {
	progress(0)

	attachments := make([]api.JSONAttachment, 0, len(payload.Attachments))
	n := len(payload.Attachments)
	for i, a := range payload.Attachments {
		content, err := encoder.Encode(a)
		if err != nil {
			return err
		}
		attachments = append(attachments, api.JSONAttachment{
			ContentBase64: content,
			Name:          a.Name,
			MimeType:      domain.DetectMimeType(a.Name, a.MimeType),
		})
		progress(int(math.Round(25 * float64(i+1) / float64(n))))
	}

	body := api.FeedbackJSONRequest{
		SupportFlow:    payload.SupportFlow,
		Email:          payload.Email,
		CustomerNumber: payload.CustomerNumber,
		ContactPerson:  payload.ContactPerson,
		PncNumber:      payload.PncNumber,
		SerialNumber:   payload.SerialNumber,
		CaseType:       payload.CaseType,
		FeedbackText:   payload.FeedbackText,
		Language:       payload.Language,
		FileNames:      payload.FileNames(),
		Attachments:    attachments,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	timeout := t.Timeout
	if timeout <= 0 {
		timeout = DefaultJSONTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	progress(50)
	if _, err := doJSON(ctx, t.HttpClient, t.URL, data); err != nil {
		return err
	}
	progress(100)
	return nil
}
