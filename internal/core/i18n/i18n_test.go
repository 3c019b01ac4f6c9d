package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestT(t *testing.T) {
	SetLocale("en")

	tests := []struct {
		name   string
		key    string
		params map[string]any
		want   string
	}{
		{"plain key", "error.required", nil, "This field is required"},
		{"interpolated", "error.max_length", map[string]any{"max": 1000}, "Must be at most 1000 characters"},
		{"unknown key returns key", "error.nope", nil, "error.nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, T(tt.key, tt.params))
		})
	}
}

func TestSetLocaleUnknownFallsBack(t *testing.T) {
	SetLocale("xx")
	assert.Equal(t, "This field is required", T("error.required", nil))
}
