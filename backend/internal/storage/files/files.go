// Package files stores uploads through a Databricks-style Files API:
// PUT {host}/api/2.0/fs/files{path}?overwrite=true with a bearer token.
package files

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/itchan-dev/supportdesk/backend/internal/service"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
)

const (
	filesAPIPrefix   = "api/2.0/fs/files"
	maxErrorBodySize = 64 << 10
)

type Storage struct {
	host       string
	token      string
	httpClient *http.Client
}

// Ensure Storage struct implements the interface at compile time.
var _ service.Store = (*Storage)(nil)

func New(host, token string, timeout time.Duration) *Storage {
	return &Storage{
		host:       host,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *Storage) CheckConfig() error {
	if s.token == "" {
		return &internal_errors.ConfigurationError{Message: "missing token"}
	}
	if s.host == "" {
		return &internal_errors.ConfigurationError{Message: "missing host"}
	}
	return nil
}

// Put uploads data to objectPath, overwriting any existing file.
func (s *Storage) Put(ctx context.Context, objectPath string, data []byte) error {
	uploadURL, err := s.uploadURL(objectPath)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("files api unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &internal_errors.RemoteServiceError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *Storage) uploadURL(objectPath string) (string, error) {
	base, err := url.Parse(s.host)
	if err != nil {
		return "", &internal_errors.ConfigurationError{Message: fmt.Sprintf("invalid host %q", s.host)}
	}
	u := *base
	u.Path = path.Join("/", base.Path, filesAPIPrefix, objectPath)
	u.RawPath = ""
	q := u.Query()
	q.Set("overwrite", "true")
	u.RawQuery = q.Encode()
	return u.String(), nil
}
