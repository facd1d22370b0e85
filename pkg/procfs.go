package pkg

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/tklauser/go-sysconf"
)

// DefaultProcRoot is where the kernel mounts procfs.
const DefaultProcRoot = "/proc"

// MaxCommandLen caps the normalized command line, matching PATH_MAX.
const MaxCommandLen = 4096

// ErrNotFound means the process exited or the pid is invalid: its stat
// record could not be opened or read.
var ErrNotFound = errors.New("process not found")

// ParseError reports a kernel record that did not match the expected
// layout. Records that merely vanished mid-read are ErrNotFound instead.
type ParseError struct {
	Pid    int
	Record string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pid %d: malformed %s record: %s", e.Pid, e.Record, e.Reason)
}

var (
	clockTicksOnce sync.Once
	clockTicks     int64 = 100
)

// ClockTicks returns the kernel's CPU accounting quantum per second
// (SC_CLK_TCK), falling back to the common 100Hz when unavailable.
func ClockTicks() int64 {
	clockTicksOnce.Do(func() {
		if tck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK); err == nil && tck > 0 {
			clockTicks = tck
		}
	})
	return clockTicks
}

func statPath(root string, pid int) string {
	return filepath.Join(root, strconv.Itoa(pid), "stat")
}

func readFirstLine(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	line, err := bufio.NewReader(file).ReadString('\n')
	if len(line) == 0 && err != nil {
		return "", err
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// splitStatLine returns the stat fields after the comm field. The comm is
// parenthesized and may itself contain spaces, parentheses or digits, so
// it is located by its closing delimiter, never by offset: everything up
// to the last ')' is pid+comm, everything after is positional again.
// Field numbering below follows proc(5), where state is field 3.
func splitStatLine(pid int, line string) ([]string, error) {
	begin := strings.IndexByte(line, '(')
	end := strings.LastIndexByte(line, ')')
	if begin < 0 || end < begin {
		return nil, &ParseError{Pid: pid, Record: "stat", Reason: "comm delimiters missing"}
	}
	return strings.Fields(line[end+1:]), nil
}

// ReadProcessInfo reads and normalizes the three kernel records of pid
// under root. Only an unreadable stat record fails the call; a missing
// status or cmdline record degrades to the -1 uid sentinel and an empty
// command respectively.
func ReadProcessInfo(root string, pid int) (*Process, error) {
	line, err := readFirstLine(statPath(root, pid))
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "pid %d", pid)
	}
	fields, err := splitStatLine(pid, line)
	if err != nil {
		return nil, err
	}
	// need up to starttime, field 22, i.e. fields[19] past the comm
	if len(fields) < 20 {
		return nil, &ParseError{Pid: pid, Record: "stat", Reason: "too few fields"}
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, &ParseError{Pid: pid, Record: "stat", Reason: "ppid not numeric"}
	}
	utime, err := strconv.ParseInt(fields[11], 10, 64)
	if err != nil {
		return nil, &ParseError{Pid: pid, Record: "stat", Reason: "utime not numeric"}
	}
	stime, err := strconv.ParseInt(fields[12], 10, 64)
	if err != nil {
		return nil, &ParseError{Pid: pid, Record: "stat", Reason: "stime not numeric"}
	}
	start, err := strconv.ParseInt(fields[19], 10, 64)
	if err != nil {
		return nil, &ParseError{Pid: pid, Record: "stat", Reason: "starttime not numeric"}
	}

	tck := ClockTicks()
	p := &Process{
		Pid:       pid,
		ParentPid: ppid,
		CPUTime:   (utime + stime) * 1000 / tck,
		StartTime: start / tck,
		UID:       readUID(root, pid),
		Command:   readCommand(root, pid),
	}
	return p, nil
}

// readUID extracts the real uid from the labeled status block, or -1 when
// the record or its Uid line is missing or malformed.
func readUID(root string, pid int) int {
	file, err := os.Open(filepath.Join(root, strconv.Itoa(pid), "status"))
	if err != nil {
		return -1
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "Uid:") {
			continue
		}
		fields := strings.Fields(line[len("Uid:"):])
		if len(fields) == 0 {
			return -1
		}
		uid, err := strconv.Atoi(fields[0])
		if err != nil {
			return -1
		}
		return uid
	}
	return -1
}

// readCommand normalizes the null-delimited argument block into a single
// space-joined command line. Inaccessible or empty records yield "".
func readCommand(root string, pid int) string {
	data, err := os.ReadFile(filepath.Join(root, strconv.Itoa(pid), "cmdline"))
	if err != nil || len(data) == 0 {
		return ""
	}
	data = bytes.ReplaceAll(data, []byte{0}, []byte{' '})
	// the kernel terminates the last argument too
	if data[len(data)-1] == ' ' {
		data = data[:len(data)-1]
	}
	if len(data) > MaxCommandLen {
		data = data[:MaxCommandLen]
	}
	return string(data)
}

// getParentPid resolves a single parent link from the stat record.
func getParentPid(root string, pid int) (int, error) {
	line, err := readFirstLine(statPath(root, pid))
	if err != nil {
		return 0, errors.Wrapf(ErrNotFound, "pid %d", pid)
	}
	fields, err := splitStatLine(pid, line)
	if err != nil {
		return 0, err
	}
	if len(fields) < 2 {
		return 0, &ParseError{Pid: pid, Record: "stat", Reason: "too few fields"}
	}
	ppid, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, &ParseError{Pid: pid, Record: "stat", Reason: "ppid not numeric"}
	}
	return ppid, nil
}

// readBootTime derives a wall-clock boot reference from the kernel uptime
// record. An unreadable record degrades to "now", which only skews
// absolute start-time normalization, never iteration.
func readBootTime(root string) int64 {
	uptime := 0.0
	if line, err := readFirstLine(filepath.Join(root, "uptime")); err == nil {
		if fields := strings.Fields(line); len(fields) > 0 {
			if up, err := strconv.ParseFloat(fields[0], 64); err == nil {
				uptime = up
			}
		}
	}
	return time.Now().Unix() - int64(uptime)
}
