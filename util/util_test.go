package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(0, Clamp(-4, 0, 127))
	assert.Equal(127, Clamp(200, 0, 127))
	assert.Equal(64, Clamp(64, 0, 127))
	assert.Equal(0.5, Clamp(0.5, 0.0, 1.0))
}

func TestSum(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(uint64(6), Sum([]uint64{1, 2, 3}))
	assert.Equal(0, Sum([]int{}))
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	assert.False(t, FileExists(dir))
	assert.NoError(t, EnsureDir(dir))
	assert.True(t, FileExists(dir))
}
