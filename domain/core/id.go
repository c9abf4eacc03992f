package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// RunID identifies one invocation that produced a set of outputs
type RunID string

// NewRunID creates a time-ordered identifier (UUID v7, v4 if v7 fails)
func NewRunID() RunID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return RunID(id.String())
}

func (id RunID) String() string {
	return string(id)
}

func (id RunID) IsEmpty() bool {
	return id == ""
}

// ParseRunID parses a string into RunID
func ParseRunID(s string) (RunID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("run ID cannot be empty")
	}
	return RunID(s), nil
}
