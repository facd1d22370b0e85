package pkg

import (
	"testing"

	"github.com/stvp/assert"
)

func buildFakeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFakeProc(t, root, fakeProc{pid: 1, comm: "init", ppid: 0, uid: 0, argv: []string{"/sbin/init"}})
	writeFakeProc(t, root, fakeProc{pid: 100, comm: "bash", ppid: 1, uid: 1000, argv: []string{"-bash"}})
	writeFakeProc(t, root, fakeProc{pid: 200, comm: "worker", ppid: 100, uid: 1000, argv: []string{"/usr/bin/worker", "--serve"}})
	return root
}

func TestIsDescendantSelf(t *testing.T) {
	root := buildFakeTree(t)
	assert.True(t, IsDescendant(root, 100, 100))
}

func TestIsDescendantChain(t *testing.T) {
	root := buildFakeTree(t)
	assert.True(t, IsDescendant(root, 200, 100))
	assert.True(t, IsDescendant(root, 200, 1))
	assert.False(t, IsDescendant(root, 100, 200))
}

func TestIsDescendantReachesRoot(t *testing.T) {
	root := buildFakeTree(t)
	assert.False(t, IsDescendant(root, 100, 999))
}

func TestIsDescendantVanishedParent(t *testing.T) {
	root := buildFakeTree(t)
	// parent 250 does not exist, the walk must stop cleanly
	writeFakeProc(t, root, fakeProc{pid: 300, comm: "orphan", ppid: 250, uid: 1000, argv: []string{"/usr/bin/orphan"}})
	assert.False(t, IsDescendant(root, 300, 100))
}
