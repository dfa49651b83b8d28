package handler

import (
	"net/http"

	"github.com/itchan-dev/supportdesk/shared/logger"
)

// Health reports that the process is up.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Ready reports 503 while the remote store credential is missing.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.upload.CheckConfig(); err != nil {
		logger.Log.Warn("upload proxy not ready", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("storage not configured"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
