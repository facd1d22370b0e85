package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stvp/assert"
)

func writeExcludeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exclude.conf")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestRegistry(t *testing.T, names ...string) *ExcludeRegistry {
	t.Helper()
	return NewExcludeRegistry(writeExcludeFile(t, strings.Join(names, "\n")+"\n"))
}

func TestRegistryLoadFromFile(t *testing.T) {
	path := writeExcludeFile(t, "  bash  # interactive shell\n\n# a full comment line\n   \npy-spy\ntop # monitor\n")
	registry := NewExcludeRegistry(path)

	assert.True(t, registry.Contains("bash"))
	assert.True(t, registry.Contains("py-spy"))
	assert.True(t, registry.Contains("top"))
	assert.False(t, registry.Contains("anything-not-listed"))
	assert.False(t, registry.Contains(""))
}

func TestRegistryLoadOnceIdempotent(t *testing.T) {
	path := writeExcludeFile(t, "bash\n")
	registry := NewExcludeRegistry(path)
	registry.LoadOnce()
	assert.True(t, registry.Contains("bash"))

	// rewriting the file must not change a loaded registry
	if err := os.WriteFile(path, []byte("zsh\n"), 0644); err != nil {
		t.Fatal(err)
	}
	registry.LoadOnce()
	assert.True(t, registry.Contains("bash"))
	assert.False(t, registry.Contains("zsh"))
}

func TestRegistryDefaults(t *testing.T) {
	registry := NewExcludeRegistry(filepath.Join(t.TempDir(), "missing.conf"))
	for _, name := range []string{"bash", "sh", "ssh", "sshd", "systemd", "init", "pslimit"} {
		assert.True(t, registry.Contains(name), name)
	}
	assert.False(t, registry.Contains("worker"))
}

func TestRegistryTeardownTwice(t *testing.T) {
	registry := newTestRegistry(t, "bash")
	assert.True(t, registry.Contains("bash"))
	registry.Teardown()
	registry.Teardown()
	assert.False(t, registry.Contains("bash"))
}

func TestRegistryMarshalJSON(t *testing.T) {
	registry := newTestRegistry(t, "top", "bash")
	data, err := registry.MarshalJSON()
	assert.Nil(t, err)
	assert.Equal(t, `["bash","top"]`, string(data))
}
