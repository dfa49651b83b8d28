package service

import (
	"context"
	"errors"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/itchan-dev/supportdesk/shared/config"
	"github.com/itchan-dev/supportdesk/shared/domain"
	"github.com/itchan-dev/supportdesk/shared/encoder"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
	"github.com/itchan-dev/supportdesk/shared/middleware/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxFileNameLength = 255

const tracerName = "github.com/itchan-dev/supportdesk/backend/internal/service"

// to mock service in tests
type UploadService interface {
	Upload(ctx context.Context, fileName, contentBase64 string) (*domain.UploadResult, error)
	CheckConfig() error
}

// Store is a remote object store reachable with the server-held credential.
type Store interface {
	CheckConfig() error
	Put(ctx context.Context, objectPath string, data []byte) error
}

type Upload struct {
	store       Store
	host        string
	volumePath  string
	uniqueNames bool
	tracer      trace.Tracer
}

func NewUpload(store Store, cfg *config.Config) *Upload {
	return &Upload{
		store:       store,
		host:        cfg.Public.Storage.Host,
		volumePath:  cfg.Public.Storage.VolumePath,
		uniqueNames: cfg.Public.Proxy.UniqueNames,
		tracer:      otel.Tracer(tracerName),
	}
}

func (u *Upload) CheckConfig() error {
	return u.store.CheckConfig()
}

// Upload decodes contentBase64 and stores it under the volume path.
// The credential check runs before anything else so a misconfigured
// server never touches the remote store.
func (u *Upload) Upload(ctx context.Context, fileName, contentBase64 string) (*domain.UploadResult, error) {
	if err := u.store.CheckConfig(); err != nil {
		metrics.ObserveUpload(metrics.ResultConfigError, 0)
		return nil, err
	}

	name, err := SanitizeFileName(fileName)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultInvalid, 0)
		return nil, err
	}
	if u.uniqueNames {
		name = uuid.NewString() + "_" + name
	}

	data, err := encoder.Decode(contentBase64)
	if err != nil {
		metrics.ObserveUpload(metrics.ResultInvalid, 0)
		return nil, &internal_errors.ValidationError{Message: "fileContent is not valid base64", Err: err}
	}

	objectPath := path.Join("/", u.volumePath, name)

	ctx, span := u.tracer.Start(ctx, "upload.put",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("upload.path", objectPath),
			attribute.Int("upload.size", len(data)),
		),
	)
	err = u.store.Put(ctx, objectPath, data)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()

	if err != nil {
		var remote *internal_errors.RemoteServiceError
		if errors.As(err, &remote) {
			metrics.ObserveUpload(metrics.ResultRemoteError, 0)
		} else {
			metrics.ObserveUpload(metrics.ResultFailed, 0)
		}
		logger.Log.Error("upload to remote store failed", "path", objectPath, "size", len(data), "error", err)
		return nil, err
	}

	metrics.ObserveUpload(metrics.ResultSuccess, len(data))
	logger.Log.Info("file uploaded", "path", objectPath, "size", len(data))

	return &domain.UploadResult{
		FileName:    name,
		FileLink:    objectPath,
		FileViewURL: strings.TrimRight(u.host, "/") + "/files" + objectPath,
	}, nil
}

// SanitizeFileName keeps only the final path element of name and drops
// control characters, so a caller can never write outside the volume.
func SanitizeFileName(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)

	switch name {
	case "", ".", "..", "/":
		return "", &internal_errors.ValidationError{Message: "fileName is not a valid file name"}
	}
	if len(name) > maxFileNameLength {
		return "", &internal_errors.ValidationError{Message: "fileName is too long"}
	}
	return name, nil
}
