package pkg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stvp/assert"
)

func TestLoadFilterOptionYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.yaml")
	content := "pid: 100\ninclude_children: true\nuid: 1000\nfilter_by_user: true\nexclude_interactive: true\nexclude_file: /tmp/exclude.conf\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	option, err := LoadFilterOption(path)
	assert.Nil(t, err)
	assert.Equal(t, 100, option.Pid)
	assert.True(t, option.IncludeChildren)
	assert.Equal(t, 1000, option.UID)
	assert.True(t, option.FilterByUser)
	assert.True(t, option.ExcludeInteractive)
	assert.Equal(t, "/tmp/exclude.conf", option.ExcludeFile)
}

func TestLoadFilterOptionJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.json")
	content := `{"pid": 42, "exclude_interactive": true}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	option, err := LoadFilterOption(path)
	assert.Nil(t, err)
	assert.Equal(t, 42, option.Pid)
	assert.False(t, option.IncludeChildren)
	assert.True(t, option.ExcludeInteractive)
}

func TestFilterOptionRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filter.yml")
	option := NewFilterOption()
	option.Pid = 7
	option.IncludeChildren = true
	option.WriteTo(path)

	loaded, err := LoadFilterOption(path)
	assert.Nil(t, err)
	assert.Equal(t, option, loaded)
}

func TestFilterOptionFilter(t *testing.T) {
	option := NewFilterOption()
	option.Pid = 9
	option.FilterByUser = true
	option.UID = 500

	filter := option.Filter()
	assert.Equal(t, 9, filter.Pid)
	assert.True(t, filter.FilterByUser)
	assert.Equal(t, 500, filter.UID)
	assert.False(t, filter.ExcludeInteractive)
}
