package handler

import (
	"context"

	"github.com/itchan-dev/supportdesk/shared/domain"
)

// MockUploadService mocks service.UploadService.
type MockUploadService struct {
	UploadFunc      func(ctx context.Context, fileName, contentBase64 string) (*domain.UploadResult, error)
	CheckConfigFunc func() error
	uploadCalls     int
}

func (m *MockUploadService) Upload(ctx context.Context, fileName, contentBase64 string) (*domain.UploadResult, error) {
	m.uploadCalls++
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, fileName, contentBase64)
	}
	return &domain.UploadResult{FileName: fileName}, nil
}

func (m *MockUploadService) CheckConfig() error {
	if m.CheckConfigFunc != nil {
		return m.CheckConfigFunc()
	}
	return nil
}
