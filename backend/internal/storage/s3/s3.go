// Package s3 stores uploads in an S3 bucket. The volume path becomes the key prefix.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/itchan-dev/supportdesk/backend/internal/service"
	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
)

type Config struct {
	Bucket          string
	Region          string
	Endpoint        string // empty means AWS
	AccessKeyID     string
	SecretAccessKey string
	Timeout         time.Duration
}

type Storage struct {
	client *awss3.Client
	cfg    Config
}

var _ service.Store = (*Storage)(nil)

func New(cfg Config) *Storage {
	creds := aws.NewCredentialsCache(aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Source:          "supportdesk",
		}, nil
	}))

	client := awss3.New(awss3.Options{
		Region:           cfg.Region,
		Credentials:      creds,
		RetryMaxAttempts: 1,
		HTTPClient:       &http.Client{Timeout: cfg.Timeout},
	}, func(o *awss3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Storage{client: client, cfg: cfg}
}

func (s *Storage) CheckConfig() error {
	switch {
	case s.cfg.SecretAccessKey == "":
		return &internal_errors.ConfigurationError{Message: "missing token"}
	case s.cfg.AccessKeyID == "":
		return &internal_errors.ConfigurationError{Message: "missing access key id"}
	case s.cfg.Bucket == "":
		return &internal_errors.ConfigurationError{Message: "missing bucket"}
	}
	return nil
}

func (s *Storage) Put(ctx context.Context, objectPath string, data []byte) error {
	key := strings.TrimPrefix(objectPath, "/")
	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(domain.DetectMimeType(path.Base(key), "")),
	})
	if err == nil {
		return nil
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() != 0 {
		return &internal_errors.RemoteServiceError{
			StatusCode: respErr.HTTPStatusCode(),
			Body:       respErr.Err.Error(),
		}
	}
	return fmt.Errorf("s3 upload failed: %w", err)
}
