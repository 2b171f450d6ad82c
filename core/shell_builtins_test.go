package core

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccshell/ccsh/core/config"
)

func newTestShell(t *testing.T) (*Shell, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	s := NewShell(config.Default())
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	s.stdout = out
	s.stderr = errOut
	return s, out, errOut
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

// blockingWait returns a job wait function and the channel that releases it.
func blockingWait() (func() error, chan struct{}) {
	exit := make(chan struct{})
	return func() error {
		<-exit
		return nil
	}, exit
}

func TestCd(t *testing.T) {
	s, _, errOut := newTestShell(t)
	tmp := t.TempDir()
	chdir(t, tmp)

	sub := filepath.Join(tmp, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	ret := Cd(s, []string{"cd", sub})
	assert.Equal(t, 0, ret)
	assert.Empty(t, errOut.String())

	wd, err := os.Getwd()
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(sub)
	require.NoError(t, err)
	assert.Equal(t, want, wd)
}

func TestCdFailureKeepsDirectory(t *testing.T) {
	s, _, errOut := newTestShell(t)
	tmp := t.TempDir()
	chdir(t, tmp)

	before, err := os.Getwd()
	require.NoError(t, err)

	ret := Cd(s, []string{"cd", filepath.Join(tmp, "does-not-exist")})
	assert.Equal(t, 1, ret)
	assert.Contains(t, errOut.String(), "cd:")

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestCdDefaultsToHome(t *testing.T) {
	s, _, _ := newTestShell(t)
	home := t.TempDir()
	t.Setenv(EnvHome, home)
	chdir(t, t.TempDir())

	ret := Cd(s, []string{"cd"})
	assert.Equal(t, 0, ret)

	wd, err := os.Getwd()
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(home)
	require.NoError(t, err)
	assert.Equal(t, want, wd)
}

func TestPwd(t *testing.T) {
	s, out, _ := newTestShell(t)

	wd, err := os.Getwd()
	require.NoError(t, err)

	ret := Pwd(s, []string{"pwd"})
	assert.Equal(t, 0, ret)
	assert.Equal(t, wd+"\n", out.String())
}

func TestExit(t *testing.T) {
	s, _, _ := newTestShell(t)

	assert.Equal(t, 0, Exit(s, []string{"exit"}))
	assert.True(t, s.quit)

	// Arguments are ignored.
	s.quit = false
	assert.Equal(t, 0, Exit(s, []string{"exit", "3"}))
	assert.True(t, s.quit)
}

func TestJobsEmpty(t *testing.T) {
	s, out, _ := newTestShell(t)

	ret := Jobs(s, []string{"jobs"})
	assert.Equal(t, 0, ret)
	assert.Equal(t, "No background jobs.\n", out.String())
}

func TestJobsListing(t *testing.T) {
	s, out, _ := newTestShell(t)

	w1, exit1 := blockingWait()
	w2, exit2 := blockingWait()
	defer close(exit1)
	defer close(exit2)

	_, err := s.jobs.Register(111, "sleep 10 &", w1)
	require.NoError(t, err)
	_, err = s.jobs.Register(222, "sleep 20 &", w2)
	require.NoError(t, err)

	ret := Jobs(s, []string{"jobs"})
	assert.Equal(t, 0, ret)
	assert.Equal(t, "[0] 111 sleep 10 &\n[1] 222 sleep 20 &\n", out.String())

	out.Reset()
	ret = Jobs(s, []string{"jobs", "-p"})
	assert.Equal(t, 0, ret)
	assert.Equal(t, "111\n222\n", out.String())
}

func TestFgInvalidIndex(t *testing.T) {
	s, _, errOut := newTestShell(t)

	w, exit := blockingWait()
	defer close(exit)
	_, err := s.jobs.Register(111, "sleep 10 &", w)
	require.NoError(t, err)

	for _, arg := range []string{"-1", "1", "64", "banana"} {
		t.Run(arg, func(t *testing.T) {
			errOut.Reset()
			ret := Fg(s, []string{"fg", arg})
			assert.Equal(t, 1, ret)
			assert.Contains(t, errOut.String(), "invalid job index")
			assert.Equal(t, 1, s.jobs.Len())
		})
	}
}

func TestFgWaitsAndRemoves(t *testing.T) {
	s, _, _ := newTestShell(t)

	w, exit := blockingWait()
	_, err := s.jobs.Register(111, "sleep 10 &", w)
	require.NoError(t, err)
	close(exit)

	ret := Fg(s, []string{"fg", "0"})
	assert.Equal(t, 0, ret)
	assert.Equal(t, 0, s.jobs.Len())
}

func TestFgUsage(t *testing.T) {
	s, _, errOut := newTestShell(t)

	ret := Fg(s, []string{"fg"})
	assert.Equal(t, 1, ret)
	assert.Contains(t, errOut.String(), "usage:")
}

func TestAliasDefineAndList(t *testing.T) {
	s, out, errOut := newTestShell(t)

	// Quoted values keep their spaces even though the tokenizer split them.
	ret := Alias(s, []string{"alias", "ll='ls", "-la'"})
	assert.Equal(t, 0, ret)
	assert.Empty(t, errOut.String())

	v, ok := s.aliases.Resolve("ll")
	assert.True(t, ok)
	assert.Equal(t, "ls -la", v)

	ret = Alias(s, []string{"alias"})
	assert.Equal(t, 0, ret)
	assert.Equal(t, "alias ll='ls -la'\n", out.String())
}

func TestAliasUsage(t *testing.T) {
	s, _, errOut := newTestShell(t)

	ret := Alias(s, []string{"alias", "noequals"})
	assert.Equal(t, 1, ret)
	assert.Contains(t, errOut.String(), "usage:")
}

func TestUnalias(t *testing.T) {
	s, _, errOut := newTestShell(t)
	require.NoError(t, s.aliases.Set("ll", "ls -la"))

	ret := Unalias(s, []string{"unalias", "ll"})
	assert.Equal(t, 0, ret)
	_, ok := s.aliases.Resolve("ll")
	assert.False(t, ok)

	ret = Unalias(s, []string{"unalias", "ll"})
	assert.Equal(t, 1, ret)
	assert.Contains(t, errOut.String(), "not found")

	errOut.Reset()
	ret = Unalias(s, []string{"unalias"})
	assert.Equal(t, 1, ret)
	assert.Contains(t, errOut.String(), "usage:")
}

func TestAliasCapacityReported(t *testing.T) {
	s, _, errOut := newTestShell(t)

	for i := 0; i < 64; i++ {
		require.NoError(t, s.aliases.Set(fmt.Sprintf("a%d", i), "x"))
	}

	ret := Alias(s, []string{"alias", "overflow=x"})
	assert.Equal(t, 1, ret)
	assert.Contains(t, errOut.String(), "alias table full")
}

func TestHelp(t *testing.T) {
	s, out, _ := newTestShell(t)

	ret := Help(s, []string{"help"})
	assert.Equal(t, 0, ret)

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)
	g.Assert(t, "help", out.Bytes())
}

func TestListBuiltinsSorted(t *testing.T) {
	assert.Equal(t,
		[]string{"alias", "cd", "exit", "fg", "help", "jobs", "pwd", "unalias"},
		ListBuiltins())
}
