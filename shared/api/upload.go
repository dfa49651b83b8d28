package api

// UploadRequest is the JSON body accepted by POST /upload.
type UploadRequest struct {
	FileName    string `json:"fileName" validate:"required"`
	FileContent string `json:"fileContent" validate:"required"` // base64
}

type UploadResponse struct {
	Success     bool   `json:"success"`
	FileName    string `json:"fileName"`
	FileLink    string `json:"fileLink"`
	FileViewURL string `json:"fileViewUrl"`
}

// ErrorResponse is returned for any failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
