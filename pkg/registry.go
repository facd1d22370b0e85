package pkg

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"sync"

	sets "github.com/deckarep/golang-set"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultExcludeFile is consulted before falling back to the built-in list.
const DefaultExcludeFile = "/etc/pslimit/exclude.conf"

// Fallback names when no exclude file is present: shells, supervisors,
// and the limiter itself.
var defaultExcluded = []string{"bash", "sh", "ssh", "sshd", "systemd", "init", "pslimit"}

// ExcludeRegistry is a once-loaded membership set of process names that
// must never be throttled. The zero value is not usable; construct it
// with NewExcludeRegistry and share it by reference. Loading happens on
// first use and is safe under concurrent first-use; the contents never
// change afterwards.
type ExcludeRegistry struct {
	path     string
	internal sets.Set
	once     sync.Once
}

func NewExcludeRegistry(path string) *ExcludeRegistry {
	if path == "" {
		path = DefaultExcludeFile
	}
	return &ExcludeRegistry{path: path}
}

// LoadOnce populates the registry from the exclude file, or from the
// built-in defaults when the file is unreadable. Calls after the first
// are no-ops.
func (r *ExcludeRegistry) LoadOnce() {
	r.once.Do(func() {
		set := sets.NewSet()
		file, err := os.Open(r.path)
		if err != nil {
			for _, name := range defaultExcluded {
				set.Add(name)
			}
			r.internal = set
			return
		}
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			if name := parseExcludeLine(scanner.Text()); name != "" {
				set.Add(name)
			}
		}
		logrus.WithField("exclude", r.path).Debugf("loaded %d excluded names", set.Cardinality())
		r.internal = set
	})
}

// parseExcludeLine strips a trailing '#' comment and surrounding
// whitespace; the empty result marks a line to skip.
func parseExcludeLine(line string) string {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}

// Contains reports exact-name membership, loading the registry first if
// needed. Always false after Teardown.
func (r *ExcludeRegistry) Contains(name string) bool {
	r.LoadOnce()
	if r.internal == nil {
		return false
	}
	return r.internal.Contains(name)
}

// Teardown releases the stored names. Safe to call more than once.
func (r *ExcludeRegistry) Teardown() {
	if r.internal != nil {
		r.internal.Clear()
		r.internal = nil
	}
}

// Names returns the loaded names in sorted order.
func (r *ExcludeRegistry) Names() []string {
	r.LoadOnce()
	var names []string
	if r.internal == nil {
		return names
	}
	for item := range r.internal.Iter() {
		names = append(names, item.(string))
	}
	sort.Strings(names)
	return names
}

func (r *ExcludeRegistry) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Names())
}
