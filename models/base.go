package models

import "github.com/google/uuid"

// newID returns a fresh identifier when id is empty.
func newID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}
