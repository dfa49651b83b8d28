package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itchan-dev/supportdesk/frontend/internal/apiclient"
	"github.com/itchan-dev/supportdesk/frontend/internal/handler"
	"github.com/itchan-dev/supportdesk/frontend/internal/setup"
	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/domain"
)

type fakeClient struct {
	languages []string
}

func (c *fakeClient) Submit(ctx context.Context, payload *domain.SubmissionPayload, progress apiclient.ProgressFunc) error {
	c.languages = append(c.languages, payload.Language)
	return nil
}

func (c *fakeClient) SendChat(ctx context.Context, req api.ChatRequest) ([]byte, error) {
	return []byte(`"ok"`), nil
}

func testRouter(client *fakeClient) http.Handler {
	cfg := config.Default()
	return New(&setup.Dependencies{Config: cfg, Handler: handler.New(client, cfg)})
}

func submitBody(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range map[string]string{
		"supportFlow":    "customer",
		"email":          "a@example.com",
		"customerNumber": "1",
		"caseType":       "order",
		"feedbackText":   "Where is it?",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestRoutes(t *testing.T) {
	r := testRouter(&fakeClient{})

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", http.StatusOK},
		{"chat session", http.MethodPost, "/api/chat/session", "", http.StatusOK},
		{"chat session with language", http.MethodPost, "/fi/api/chat/session", "", http.StatusOK},
		{"chat", http.MethodPost, "/api/chat", `{"message":"hi"}`, http.StatusOK},
		{"submit wrong method", http.MethodGet, "/api/submit", "", http.StatusMethodNotAllowed},
		{"unknown", http.MethodGet, "/nope", "", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestSubmitLanguagePrefix(t *testing.T) {
	client := &fakeClient{}
	r := testRouter(client)

	for _, path := range []string{"/api/submit", "/de/api/submit"} {
		body, contentType := submitBody(t)
		req := httptest.NewRequest(http.MethodPost, path, body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		r.ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	assert.Equal(t, []string{"en", "de"}, client.languages)
}

func TestChatSessionLanguage(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter(&fakeClient{}).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/fr/api/chat/session", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	var resp api.ChatSessionResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "fr", resp.Language)
}

func TestCORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/submit", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()

	testRouter(&fakeClient{}).ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST", rr.Header().Get("Access-Control-Allow-Methods"))
}

func TestSecurityHeaders(t *testing.T) {
	cfg := config.Default()
	cfg.Public.Web.HTTPS = true
	r := New(&setup.Dependencies{Config: cfg, Handler: handler.New(&fakeClient{}, cfg)})
	rr := httptest.NewRecorder()

	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, webCSP, rr.Header().Get("Content-Security-Policy"))
	assert.NotEmpty(t, rr.Header().Get("Strict-Transport-Security"))
}
