package pkg

// Process is one snapshot of a process's accounting state. It is a plain
// value: once returned by the iterator it is never touched again.
type Process struct {
	Pid       int    `json:"pid" yaml:"pid"`
	ParentPid int    `json:"parent" yaml:"parent"`
	CPUTime   int64  `json:"cputime_ms" yaml:"cputime_ms"`
	StartTime int64  `json:"starttime" yaml:"starttime"`
	UID       int    `json:"uid" yaml:"uid"`
	Command   string `json:"command" yaml:"command"`
}

// Filter selects which processes an iteration produces. Pid 0 means all
// processes; IncludeChildren only matters with a nonzero Pid.
type Filter struct {
	Pid                int
	IncludeChildren    bool
	FilterByUser       bool
	UID                int
	ExcludeInteractive bool
}
