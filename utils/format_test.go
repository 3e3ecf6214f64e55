package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat_DecorateText(t *testing.T) {
	s := DecorateText("done", SuccessMessage)
	assert.True(t, strings.HasPrefix(s, SuccessColor))
	assert.True(t, strings.HasSuffix(s, DefaultColor))

	s = DecorateText("failed", ErrorMessage)
	assert.True(t, strings.HasPrefix(s, ErrorColor))

	assert.Equal(t, "raw", DecorateText("raw", MessageType(99)))
}

func TestFormat_FormatTime(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{1500 * time.Millisecond, "1.50s"},
		{2*time.Minute + 3*time.Second, "2m 3.00s"},
		{1*time.Hour + 2*time.Minute + 3*time.Second, "1h 2m 3.00s"},
		{26*time.Hour + 1*time.Second, "1d 2h 0m 1.00s"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatTime(c.d))
	}
}
