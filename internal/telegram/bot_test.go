package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchesCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		want    bool
	}{
		{"/wake 06:30", "/wake", true},
		{"/wake", "/wake", true},
		{"/wakeup", "/wake", false},
		{"/addhabit", "/addhabit", true},
		{"/addhabit 📚 Чтение", "/addhabit", true},
		{"/delhabit", "/delhabit", true},
		{"/delhabit custom_1", "/delhabit", true},
		{"wake", "/wake", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesCommand(tt.text, tt.command), tt.text)
	}
}

func TestCommandArg(t *testing.T) {
	assert.Equal(t, "06:30", commandArg("/wake 06:30", "/wake"))
	assert.Equal(t, "", commandArg("/wake", "/wake"))
	assert.Equal(t, "", commandArg("/wake   ", "/wake"))
	assert.Equal(t, "custom_1", commandArg("/delhabit  custom_1 ", "/delhabit"))
}
