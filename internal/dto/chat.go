package dto

type ChatRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId,omitempty"`
}

type Attachment struct {
	Type     string `json:"type"` // "image" or "video"
	URL      string `json:"url"`
	FileName string `json:"fileName"`
}

type ChatResponse struct {
	Message     string       `json:"message"`
	Attachments []Attachment `json:"attachments"`
	Source      string       `json:"source"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
