package pkg

import "strings"

// Generic script interpreters whose argv[0] says nothing about the
// program actually running; the hosted program name is recovered from
// the rest of the command line instead.
var interpreterNames = map[string]bool{
	"python":  true,
	"python3": true,
}

// ShouldExclude decides whether p must not be touched by the limiter.
// Anything that cannot be classified is not excluded.
func (r *ExcludeRegistry) ShouldExclude(p *Process, excludeInteractive bool) bool {
	if !excludeInteractive {
		return false
	}
	if p == nil || p.Command == "" {
		return false
	}

	name := executableName(p.Command)
	if name == "" {
		return false
	}
	if r.Contains(name) {
		return true
	}
	// login shells report themselves as e.g. "-bash"
	if len(name) > 1 && name[0] == '-' && r.Contains(name[1:]) {
		return true
	}
	if interpreterNames[name] {
		if hosted := hostedProgramName(p.Command); hosted != "" && r.Contains(hosted) {
			return true
		}
	}
	return false
}

// executableName reduces a normalized command line to the bare argv[0]
// name: the token before the first space, with any path prefix stripped.
func executableName(command string) string {
	argv0 := command
	if i := strings.IndexByte(command, ' '); i >= 0 {
		argv0 = command[:i]
	}
	return baseName(argv0)
}

// baseName strips the path prefix from a token. A token ending in a
// separator has no usable name.
func baseName(token string) string {
	i := strings.LastIndexByte(token, '/')
	if i < 0 {
		return token
	}
	if i+1 >= len(token) {
		return ""
	}
	return token[i+1:]
}

// hostedProgramName recovers the program an interpreter was asked to
// run: the last whitespace-delimited token of the command line, path
// prefix stripped.
func hostedProgramName(command string) string {
	i := strings.LastIndexByte(command, ' ')
	if i < 0 || i+1 >= len(command) {
		return ""
	}
	return baseName(command[i+1:])
}
