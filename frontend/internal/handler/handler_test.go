package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/supportdesk/frontend/internal/apiclient"
	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/domain"
)

// MockClient mocks the webhook client.
type MockClient struct {
	SubmitFunc   func(ctx context.Context, payload *domain.SubmissionPayload, progress apiclient.ProgressFunc) error
	SendChatFunc func(ctx context.Context, req api.ChatRequest) ([]byte, error)

	mu       sync.Mutex
	payloads []*domain.SubmissionPayload
	contents map[string][]byte
	chats    []api.ChatRequest
}

func (m *MockClient) Submit(ctx context.Context, payload *domain.SubmissionPayload, progress apiclient.ProgressFunc) error {
	m.mu.Lock()
	m.payloads = append(m.payloads, payload)
	if m.contents == nil {
		m.contents = make(map[string][]byte)
	}
	// read while the request is alive; multipart temp files go away afterwards
	for _, a := range payload.Attachments {
		rc, err := a.Open()
		if err != nil {
			m.mu.Unlock()
			return err
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		m.contents[a.Name] = data
	}
	m.mu.Unlock()

	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, payload, progress)
	}
	return nil
}

func (m *MockClient) SendChat(ctx context.Context, req api.ChatRequest) ([]byte, error) {
	m.mu.Lock()
	m.chats = append(m.chats, req)
	m.mu.Unlock()
	if m.SendChatFunc != nil {
		return m.SendChatFunc(ctx, req)
	}
	return []byte(`{"reply":"echo: ` + req.Message + `"}`), nil
}

type upload struct {
	name    string
	content []byte
}

func multipartRequest(t *testing.T, target string, fields map[string]string, files ...upload) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"supportFlow":    "technical",
		"email":          "ola@example.no",
		"customerNumber": "42",
		"contactPerson":  "Ola",
		"pncNumber":      "967 12 34-01",
		"serialNumber":   "SN-1",
		"caseType":       "automower",
		"feedbackText":   "Blade motor stops.",
	}
}

func testHandler(client *MockClient) *Handler {
	return New(client, config.Default())
}
