package dto

// UserResponseDTO is returned in API responses for users
type UserResponseDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
