package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "sentinel", err: ErrNotFound, expected: true},
		{name: "wrapped sentinel", err: fmt.Errorf("failed to get user: %w", ErrNotFound), expected: true},
		{name: "message based", err: errors.New("github integration not found"), expected: true},
		{name: "mixed case message", err: errors.New("Integration Not Found"), expected: true},
		{name: "unrelated", err: errors.New("connection refused"), expected: false},
		{name: "conflict", err: ErrGitHubAccountConflict, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}
