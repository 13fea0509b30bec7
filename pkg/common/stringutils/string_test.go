package stringutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandTildePath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, filepath.Join(home, ".appstate"), ExpandTildePath("~/.appstate"))
	assert.Equal(t, "/abs/path", ExpandTildePath("/abs/path"))
	assert.Equal(t, "rel/~/path", ExpandTildePath("rel/~/path"))
	assert.Equal(t, "", ExpandTildePath(""))
}
