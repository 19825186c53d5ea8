package testutil

import (
	"testing"

	"github.com/google/uuid"
)

// ParseUUID parses a UUID string and fails the test if invalid
func ParseUUID(t *testing.T, uuidStr string) uuid.UUID {
	id, err := uuid.Parse(uuidStr)
	if err != nil {
		t.Fatalf("Invalid UUID string: %s, error: %v", uuidStr, err)
	}
	return id
}

// StrPtr returns a pointer to s, for optional columns.
func StrPtr(s string) *string {
	return &s
}
