package model

// User represents a user profile synced from the identity provider.
type User struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
