package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/itchan-dev/supportdesk/shared/api"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
	"github.com/itchan-dev/supportdesk/shared/utils"
)

// Upload accepts one base64 file and forwards it to the remote store.
// It sets its own CORS headers so the Lambda entry point, which bypasses
// the router middleware, answers pre-flight checks the same way.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.Public.Proxy.MaxRequestBytes)

	var body api.UploadRequest
	if err := utils.Decode(r.Body, &body); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := utils.Validate(&body); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Missing fileName or fileContent", "")
		return
	}

	result, err := h.upload.Upload(r.Context(), body.FileName, body.FileContent)
	if err != nil {
		writeUploadError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.UploadResponse{
		Success:     true,
		FileName:    result.FileName,
		FileLink:    result.FileLink,
		FileViewURL: result.FileViewURL,
	})
}

func writeUploadError(w http.ResponseWriter, err error) {
	var (
		validation *internal_errors.ValidationError
		cfgErr     *internal_errors.ConfigurationError
		remote     *internal_errors.RemoteServiceError
	)
	switch {
	case errors.As(err, &validation):
		utils.WriteError(w, http.StatusBadRequest, validation.Message, "")
	case errors.As(err, &cfgErr):
		logger.Log.Error("upload proxy misconfigured", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Server configuration error: "+cfgErr.Message, "")
	case errors.As(err, &remote):
		utils.WriteError(w, remote.StatusCode, fmt.Sprintf("upload failed: HTTP %d", remote.StatusCode), remote.Body)
	default:
		logger.Log.Error("upload failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Upload failed", err.Error())
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}
