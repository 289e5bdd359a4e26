package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMimeType(t *testing.T) {
	mime, err := ValidateMimeType([]byte("courses:\n  - slug: intro\n"), []string{"text/"})
	assert.NoError(t, err)
	assert.Contains(t, mime, "text/plain")

	_, err = ValidateMimeType([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), []string{"text/"})
	assert.Error(t, err)
}

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint("abc"))
	assert.Equal(t, uint(0), MustParseUint("-1"))
}
