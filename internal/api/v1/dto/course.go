package dto

import "encoding/json"

// ChatMessageDTO is a single conversation turn in a generation request.
// The fields are deliberately loose; sanitization happens downstream.
type ChatMessageDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateCourseRequestDTO is the incoming course generation request.
// A missing messages field is treated as an empty transcript.
type GenerateCourseRequestDTO struct {
	Messages []ChatMessageDTO `json:"messages"`
}

// EnrollLearnerRequestDTO is used for incoming enrollment requests
type EnrollLearnerRequestDTO struct {
	UserID string `json:"userId" validate:"required,uuid"`
}

// CourseResponseDTO is returned in API responses for courses
type CourseResponseDTO struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	Name    string `json:"name"`
}

// ModuleResponseDTO is returned in API responses for modules. Content
// carries the kind-specific payload as a structured object.
type ModuleResponseDTO struct {
	ID       string          `json:"id"`
	CourseID string          `json:"courseId"`
	Type     string          `json:"type"`
	Content  json.RawMessage `json:"content"`
}

// GenerateCourseResponseDTO is the full object graph of a freshly
// generated and persisted course.
type GenerateCourseResponseDTO struct {
	Course  CourseResponseDTO   `json:"course"`
	Modules []ModuleResponseDTO `json:"modules"`
}

// EnrollLearnerResponseDTO acknowledges an enrollment.
type EnrollLearnerResponseDTO struct {
	OK bool `json:"ok"`
}
