package api

import "github.com/itchan-dev/supportdesk/shared/domain"

// Browser-facing DTOs served by the frontend host

type SubmitResponse struct {
	Success   bool     `json:"success"`
	FileNames []string `json:"fileNames"`
	Language  string   `json:"language"`
}

type ChatSendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
}

type ChatSendResponse struct {
	SessionID string `json:"sessionId"`
	Reply     string `json:"reply"`
	Language  string `json:"language"`
}

type ChatSessionResponse struct {
	SessionID string               `json:"sessionId"`
	Language  string               `json:"language"`
	Messages  []domain.ChatMessage `json:"messages"`
}
