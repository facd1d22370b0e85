package pkg

// IsDescendant reports whether pid descends from ancestorPid, walking
// parent links until it meets the ancestor or the tree root. A process is
// trivially its own descendant. A walk step that fails because a process
// vanished terminates as "not a descendant".
func IsDescendant(root string, pid, ancestorPid int) bool {
	ppid := pid
	for ppid > 1 && ppid != ancestorPid {
		next, err := getParentPid(root, ppid)
		if err != nil {
			return false
		}
		ppid = next
	}
	return ppid == ancestorPid
}
