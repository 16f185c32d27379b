package core

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "user prefix", prefix: "u"},
		{name: "multi-character prefix", prefix: "ghi"},
		{name: "uppercase prefix gets lowercased", prefix: "INV"},
		{name: "prefix with spaces gets trimmed", prefix: "  co  "},
	}

	fullPattern := regexp.MustCompile(`^[a-z0-9]+_[0123456789ABCDEFGHJKMNPQRSTVWXYZ]{26}$`)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewID(tt.prefix)

			expectedPrefix := strings.ToLower(strings.TrimSpace(tt.prefix)) + "_"
			assert.True(t, strings.HasPrefix(got, expectedPrefix), "NewID() = %s, want prefix %s", got, expectedPrefix)
			assert.Len(t, strings.TrimPrefix(got, expectedPrefix), 26)
			assert.Regexp(t, fullPattern, got)
			assert.True(t, IsValidULID(got))
		})
	}
}

func TestNewID_Uniqueness(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := NewID("u")
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id generated: %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewID_EmptyPrefixPanics(t *testing.T) {
	assert.Panics(t, func() { NewID("") })
	assert.Panics(t, func() { NewID("   ") })
}

func TestIsValidULID(t *testing.T) {
	tests := []struct {
		name  string
		id    string
		valid bool
	}{
		{name: "valid id", id: "u_01G0EZ1XTM37C5X11SQTDNCTM1", valid: true},
		{name: "valid numeric prefix", id: "co2_01G0EZ1XTM37C5X11SQTDNCTM1", valid: true},
		{name: "empty", id: "", valid: false},
		{name: "missing prefix", id: "_01G0EZ1XTM37C5X11SQTDNCTM1", valid: false},
		{name: "missing separator", id: "01G0EZ1XTM37C5X11SQTDNCTM1", valid: false},
		{name: "uppercase prefix", id: "U_01G0EZ1XTM37C5X11SQTDNCTM1", valid: false},
		{name: "too short", id: "u_01G0EZ1XTM37C5X11SQTDNCTM", valid: false},
		{name: "lowercase ulid", id: "u_01g0ez1xtm37c5x11sqtdnctm1", valid: false},
		{name: "excluded letter", id: "u_01G0EZ1XTM37C5X11SQTDNCTMI", valid: false},
		{name: "two separators", id: "u_x_01G0EZ1XTM37C5X11SQTDNCTM1", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidULID(tt.id))
		})
	}
}
