package lambdaadapter

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	t.Run("forwards method path query headers and body", func(t *testing.T) {
		var gotMethod, gotPath, gotQuery, gotType string
		var gotBody []byte
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotQuery = r.URL.Query().Get("lng")
			gotType = r.Header.Get("Content-Type")
			gotBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"success":true}`))
		})

		resp, err := New(h).Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:            http.MethodPost,
			Path:                  "/upload",
			QueryStringParameters: map[string]string{"lng": "sv"},
			Headers:               map[string]string{"Content-Type": "application/json"},
			Body:                  `{"fileName":"a.txt"}`,
		})

		require.NoError(t, err)
		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "/upload", gotPath)
		assert.Equal(t, "sv", gotQuery)
		assert.Equal(t, "application/json", gotType)
		assert.Equal(t, `{"fileName":"a.txt"}`, string(gotBody))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, `{"success":true}`, resp.Body)
		assert.False(t, resp.IsBase64Encoded)
		assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	})

	t.Run("decodes base64 event bodies", func(t *testing.T) {
		var gotBody []byte
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
		})

		_, err := New(h).Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:      http.MethodPost,
			Path:            "/upload",
			Body:            base64.StdEncoding.EncodeToString([]byte("hi")),
			IsBase64Encoded: true,
		})

		require.NoError(t, err)
		assert.Equal(t, []byte("hi"), gotBody)
	})

	t.Run("binary responses are base64 encoded", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write([]byte{0xff, 0x00})
		})

		resp, err := New(h).Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet, Path: "/x"})

		require.NoError(t, err)
		assert.True(t, resp.IsBase64Encoded)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0x00}), resp.Body)
	})

	t.Run("invalid base64 body is an error", func(t *testing.T) {
		_, err := New(http.NotFoundHandler()).Handle(context.Background(), events.APIGatewayProxyRequest{
			HTTPMethod:      http.MethodPost,
			Path:            "/upload",
			Body:            "@@",
			IsBase64Encoded: true,
		})

		assert.Error(t, err)
	})
}
