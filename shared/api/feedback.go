package api

// Request DTOs sent to the form and chat webhooks

type JSONAttachment struct {
	ContentBase64 string `json:"contentBase64"`
	Name          string `json:"name"`
	MimeType      string `json:"mimeType"`
}

type FeedbackJSONRequest struct {
	SupportFlow    string           `json:"supportFlow"`
	Email          string           `json:"email"`
	CustomerNumber string           `json:"customerNumber"`
	ContactPerson  string           `json:"contactPerson"`
	PncNumber      string           `json:"pncNumber"`
	SerialNumber   string           `json:"serialNumber"`
	CaseType       string           `json:"caseType"`
	FeedbackText   string           `json:"feedbackText"`
	Language       string           `json:"language"`
	FileNames      string           `json:"fileNames"`
	Attachments    []JSONAttachment `json:"attachments"`
}

type ChatRequest struct {
	Message             string        `json:"message"`
	SessionID           string        `json:"sessionId"`
	ConversationHistory []ChatHistory `json:"conversationHistory"`
	Language            string        `json:"language"`
}

type ChatHistory struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
