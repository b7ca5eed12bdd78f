package cli

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestCategoryColor(t *testing.T) {
	tests := []struct {
		token string
		want  lipgloss.Color
	}{
		{"orange", "#FF9500"},
		{" Indigo ", "#5856D6"},
		{"#123456", "#123456"},
		{"212", "212"},
		{"chartreuse", SubtleColor},
		{"", SubtleColor},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryColor(tt.token))
		})
	}
}

func TestBar(t *testing.T) {
	assert.Equal(t, "░░░░", Bar(0, 4))
	assert.Equal(t, "██░░", Bar(50, 4))
	assert.Equal(t, "████", Bar(100, 4))
	assert.Equal(t, "████", Bar(250, 4))
	assert.Equal(t, "░░░░", Bar(-3, 4))
}
