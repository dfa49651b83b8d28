// Package minio stores uploads in a MinIO (or any S3 compatible) bucket.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/itchan-dev/supportdesk/backend/internal/service"
	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string // host:port or a full URL
	UseSSL    bool   // ignored when Endpoint carries a scheme
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	Timeout   time.Duration
}

type Storage struct {
	client  *miniogo.Client
	bucket  string
	initErr error
}

var _ service.Store = (*Storage)(nil)

// New never fails; a bad endpoint is reported by CheckConfig so the proxy
// can still start and answer with a configuration error.
func New(cfg Config) *Storage {
	s := &Storage{bucket: cfg.Bucket}
	if cfg.SecretKey == "" {
		s.initErr = &internal_errors.ConfigurationError{Message: "missing token"}
		return s
	}
	if cfg.Bucket == "" {
		s.initErr = &internal_errors.ConfigurationError{Message: "missing bucket"}
		return s
	}

	host, secure, err := splitEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		s.initErr = &internal_errors.ConfigurationError{Message: err.Error()}
		return s
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	client, err := miniogo.New(host, &miniogo.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    secure,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		s.initErr = &internal_errors.ConfigurationError{Message: fmt.Sprintf("invalid minio endpoint: %v", err)}
		return s
	}
	client.SetAppInfo("supportdesk", "1")
	s.client = client
	return s
}

func (s *Storage) CheckConfig() error {
	return s.initErr
}

func (s *Storage) Put(ctx context.Context, objectPath string, data []byte) error {
	if s.initErr != nil {
		return s.initErr
	}
	key := strings.TrimPrefix(objectPath, "/")
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), miniogo.PutObjectOptions{
		ContentType: domain.DetectMimeType(path.Base(key), ""),
	})
	if err == nil {
		return nil
	}

	if resp := miniogo.ToErrorResponse(err); resp.StatusCode != 0 {
		return &internal_errors.RemoteServiceError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(resp.Code + " " + resp.Message),
		}
	}
	return fmt.Errorf("minio upload failed: %w", err)
}

func splitEndpoint(endpoint string, useSSL bool) (string, bool, error) {
	if endpoint == "" {
		return "", false, fmt.Errorf("missing endpoint")
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, useSSL, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("invalid endpoint %q", endpoint)
	}
	return u.Host, u.Scheme == "https", nil
}
