package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	t.Cleanup(func() { Version, GitCommit = origVersion, origCommit })

	Version = "1.2.3"
	GitCommit = "abc123"

	s := String()
	assert.Contains(t, s, "ontograph 1.2.3")
	assert.Contains(t, s, "commit: abc123")
	assert.Contains(t, s, runtime.Version())
}

func TestInfo(t *testing.T) {
	info := Info()
	for _, key := range []string{"version", "commit", "buildTime", "goVersion", "platform"} {
		assert.Contains(t, info, key)
	}
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info["platform"])
}
