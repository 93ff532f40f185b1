package model

// ChatMessage is a single caller-supplied conversation turn.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
