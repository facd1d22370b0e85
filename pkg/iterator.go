package pkg

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// PROC_SUPER_MAGIC: the statfs f_type of a mounted procfs instance.
const procSuperMagic = 0x9fa0

// ErrProcNotMounted is fatal: without procfs the limiter is meaningless.
var ErrProcNotMounted = errors.New("procfs is not mounted")

// Iterator is a resumable cursor over the live process table. It owns an
// open directory stream over the procfs root and yields, one Next call
// at a time, the records matching its Filter. The table mutates under
// the cursor, so candidates that vanish between listing and reading are
// skipped, never surfaced as errors.
type Iterator struct {
	root     string
	dir      *os.File
	filter   *Filter
	registry *ExcludeRegistry
	bootTime int64
}

// OpenIterator verifies procfs is mounted, opens the directory stream
// and records the boot-time reference. A nil registry gets the default
// exclude source. These are the only two fatal conditions in the whole
// iteration: ErrProcNotMounted, or the opendir failure.
func OpenIterator(filter *Filter, registry *ExcludeRegistry) (*Iterator, error) {
	if err := CheckProcMounted(DefaultProcRoot); err != nil {
		return nil, err
	}
	return openIterator(DefaultProcRoot, filter, registry)
}

// openIterator skips the mount probe so tests can point the cursor at a
// procfs image under an ordinary filesystem.
func openIterator(root string, filter *Filter, registry *ExcludeRegistry) (*Iterator, error) {
	dir, err := os.Open(root)
	if err != nil {
		return nil, errors.Wrapf(err, "opendir %s", root)
	}
	if registry == nil {
		registry = NewExcludeRegistry("")
	}
	return &Iterator{
		root:     root,
		dir:      dir,
		filter:   filter,
		registry: registry,
		bootTime: readBootTime(root),
	}, nil
}

// CheckProcMounted probes the filesystem type at root for procfs.
func CheckProcMounted(root string) error {
	var st unix.Statfs_t
	if err := unix.Statfs(root, &st); err != nil {
		return ErrProcNotMounted
	}
	if st.Type != procSuperMagic {
		return ErrProcNotMounted
	}
	return nil
}

// BootTime is the wall-clock boot reference recorded when the iterator
// opened, for normalizing StartTime into absolute time.
func (it *Iterator) BootTime() int64 {
	return it.bootTime
}

// Next returns the next qualifying process record, or nil once the
// iteration is exhausted or the iterator closed. With a single target
// pid and no descendant inclusion it is single-shot: one record read,
// then exhausted regardless of outcome.
func (it *Iterator) Next() *Process {
	if it.dir == nil {
		return nil
	}
	if it.filter.Pid != 0 && !it.filter.IncludeChildren {
		p, err := ReadProcessInfo(it.root, it.filter.Pid)
		it.exhaust()
		if err != nil || !it.admit(p) {
			return nil
		}
		return p
	}
	for {
		names, err := it.dir.Readdirnames(1)
		if err != nil || len(names) == 0 {
			it.exhaust()
			return nil
		}
		pid, ok := parsePid(names[0])
		if !ok {
			// not a process directory
			continue
		}
		if it.filter.Pid != 0 && pid != it.filter.Pid && !IsDescendant(it.root, pid, it.filter.Pid) {
			continue
		}
		p, err := ReadProcessInfo(it.root, pid)
		if err != nil {
			// raced away between listing and reading
			continue
		}
		if !it.admit(p) {
			continue
		}
		return p
	}
}

func (it *Iterator) admit(p *Process) bool {
	if it.filter.FilterByUser && p.UID != it.filter.UID {
		return false
	}
	return !it.registry.ShouldExclude(p, it.filter.ExcludeInteractive)
}

func (it *Iterator) exhaust() {
	if it.dir != nil {
		it.dir.Close()
		it.dir = nil
	}
}

// Close releases the directory stream. Safe to call when already
// exhausted or closed; a release failure is reported but the stream is
// considered released either way.
func (it *Iterator) Close() error {
	if it.dir == nil {
		return nil
	}
	err := it.dir.Close()
	it.dir = nil
	if err != nil {
		logrus.WithError(err).Warnln("closing process directory stream")
		return errors.Wrap(err, "closedir")
	}
	return nil
}

func parsePid(name string) (int, bool) {
	for i := 0; i < len(name); i++ {
		if name[i] < '0' || name[i] > '9' {
			return 0, false
		}
	}
	pid, err := strconv.Atoi(name)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
