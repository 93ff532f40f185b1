package service

import (
	"strings"

	"app/internal/model"
)

// SanitizeChatMessages normalizes caller-supplied conversation turns
// before they are sent upstream. Turns without a non-empty content are
// dropped. Any role other than exactly "assistant" is coerced to
// "user", so a caller cannot smuggle a system turn past the fixed
// instruction.
func SanitizeChatMessages(messages []model.ChatMessage) []model.ChatMessage {
	out := make([]model.ChatMessage, 0, len(messages))
	for _, m := range messages {
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		role := "user"
		if m.Role == "assistant" {
			role = "assistant"
		}
		out = append(out, model.ChatMessage{Role: role, Content: content})
	}
	return out
}

// systemPrompt is the fixed instruction sent with every generation
// call. It encodes the exact output schema and cardinality rules and
// carries no caller-dependent content.
func systemPrompt() string {
	return strings.Join([]string{
		"You are an AI that generates a short course from a chat conversation.",
		"",
		"Return ONLY a JSON object (no markdown, no code fences) with this exact schema:",
		"{",
		`  "courseName": string,`,
		`  "modules": [`,
		`    { "type": "info", "content": { "markdown": string } },`,
		`    { "type": "test", "content": { "question": string, "options": string[], "correctIndex": number } }`,
		"  ]",
		"}",
		"",
		"Rules:",
		"- modules must be an array of exactly 4 items.",
		"- Include exactly 2 info modules and 2 test modules.",
		"- Each test module must have exactly 4 options.",
		"- correctIndex must be an integer index into options (0..3).",
		"- The info markdown should be reasonably short and readable, with at least one heading.",
		"",
		"Do not include any other keys.",
	}, "\n")
}
