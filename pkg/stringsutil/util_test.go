package stringsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveEmptyStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, RemoveEmptyStrings([]string{"", "a", "", "b", ""}))
	assert.Nil(t, RemoveEmptyStrings([]string{"", ""}))
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  hello   world  ", want: "hello world"},
		{in: "hello\n\tworld", want: "hello world"},
		{in: "hello world", want: "hello world"},
		{in: "", want: ""},
		{in: "   ", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CollapseWhitespace(tt.in))
	}
}
