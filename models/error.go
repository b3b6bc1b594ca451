package models

// MessageResponse is the body of every error and acknowledgement response
type MessageResponse struct {
	Response string `json:"response"`
}
