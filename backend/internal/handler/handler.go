package handler

import (
	"github.com/itchan-dev/supportdesk/backend/internal/service"
	"github.com/itchan-dev/supportdesk/shared/config"
)

type Handler struct {
	upload service.UploadService
	cfg    *config.Config
}

func New(upload service.UploadService, cfg *config.Config) *Handler {
	return &Handler{upload: upload, cfg: cfg}
}
