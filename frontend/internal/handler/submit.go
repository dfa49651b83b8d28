package handler

import (
	"errors"
	"net/http"

	"github.com/itchan-dev/supportdesk/frontend/internal/form"
	"github.com/itchan-dev/supportdesk/shared/api"
	"github.com/itchan-dev/supportdesk/shared/domain"
	internal_errors "github.com/itchan-dev/supportdesk/shared/errors"
	"github.com/itchan-dev/supportdesk/shared/logger"
	"github.com/itchan-dev/supportdesk/shared/utils"
)

// room for the text fields and part headers on top of the attachments
const multipartOverhead = 1 << 20

// Submit accepts the browser's multipart form post and relays it to the form
// webhook. Files arrive in the "files" field; the other field names match the
// ones sent to the webhook.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.limits.MaxTotalSize+multipartOverhead)
	if err := r.ParseMultipartForm(h.cfg.Public.Web.MaxMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, http.StatusRequestEntityTooLarge, "Payload too large", "")
			return
		}
		utils.WriteError(w, http.StatusBadRequest, "Body is not a valid multipart form", "")
		return
	}
	defer r.MultipartForm.RemoveAll()

	loc := h.locale.Detect(r)
	loc.Set(r.FormValue("language"))

	f := form.New(h.client, h.limits, loc.Language)
	if err := f.SetFields(fieldsFrom(r)); err != nil {
		writeSubmitError(w, err)
		return
	}

	headers := r.MultipartForm.File["files"]
	attachments := make([]*domain.Attachment, 0, len(headers))
	for _, fh := range headers {
		attachments = append(attachments, domain.NewAttachmentFromHeader(fh))
	}
	if err := f.AddFiles(attachments...); err != nil {
		writeSubmitError(w, err)
		return
	}

	names := f.FileNames()
	if err := f.Submit(r.Context(), nil); err != nil {
		writeSubmitError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, api.SubmitResponse{
		Success:   true,
		FileNames: names,
		Language:  loc.Language,
	})
}

func fieldsFrom(r *http.Request) form.Fields {
	return form.Fields{
		SupportFlow:    r.FormValue("supportFlow"),
		Email:          r.FormValue("email"),
		CustomerNumber: r.FormValue("customerNumber"),
		ContactPerson:  r.FormValue("contactPerson"),
		PncNumber:      r.FormValue("pncNumber"),
		SerialNumber:   r.FormValue("serialNumber"),
		CaseType:       r.FormValue("caseType"),
		FeedbackText:   r.FormValue("feedbackText"),
	}
}

func writeSubmitError(w http.ResponseWriter, err error) {
	var (
		validation *internal_errors.ValidationError
		timeout    *internal_errors.TimeoutError
		network    *internal_errors.NetworkError
		ioErr      *internal_errors.IoError
	)
	switch {
	case errors.Is(err, form.ErrSubmissionInFlight):
		utils.WriteError(w, http.StatusConflict, "Submission already in progress", "")
	case errors.As(err, &validation):
		utils.WriteError(w, http.StatusBadRequest, validation.Message, "")
	case errors.As(err, &timeout):
		logger.Log.Warn("form webhook timed out", "error", err)
		utils.WriteError(w, http.StatusGatewayTimeout, "Form service timed out", "")
	case errors.As(err, &network):
		logger.Log.Warn("form webhook failed", "status", network.StatusCode, "error", err)
		utils.WriteError(w, http.StatusBadGateway, "Form service unavailable", network.Error())
	case errors.As(err, &ioErr):
		logger.Log.Error("cannot read uploaded attachment", "file", ioErr.Name, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Cannot read attachment", ioErr.Name)
	default:
		logger.Log.Error("submission failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "Submission failed", "")
	}
}
