package core

import (
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/ccshell/ccsh/core/expand"
	"github.com/ccshell/ccsh/core/jobs"
	"github.com/ccshell/ccsh/core/parse"
)

// runExternal launches an external program described by pc. line is the
// original command text, kept for job bookkeeping. The return value is the
// command's exit status, or non-zero when the launch itself failed.
//
// The spawned process gets the default SIGINT disposition: the interpreter's
// handler lives in this process only, so interactive children see Ctrl-C
// normally.
func (s *Shell) runExternal(line string, pc *parse.Command) int {
	argv := expand.Args(s.fs, s.home(), pc.Argv)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = s.stdout
	cmd.Stderr = s.stderr

	var toClose listCloser
	defer func() { _ = toClose.Close() }()

	if pc.Stdin != "" {
		fd, err := os.Open(expand.Tilde(pc.Stdin, s.home()))
		if err != nil {
			fmt.Fprintf(s.stderr, "ccsh: %s: %v\n", pc.Stdin, err)
			return 1
		}
		toClose = append(toClose, fd)
		cmd.Stdin = fd
	}

	if pc.Stdout != "" {
		flags := os.O_CREATE | os.O_WRONLY
		if pc.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		fd, err := os.OpenFile(expand.Tilde(pc.Stdout, s.home()), flags, 0644)
		if err != nil {
			fmt.Fprintf(s.stderr, "ccsh: %s: %v\n", pc.Stdout, err)
			return 1
		}
		toClose = append(toClose, fd)
		cmd.Stdout = fd
	}

	if err := cmd.Start(); err != nil {
		fmt.Fprintf(s.stderr, "ccsh: %s: %v\n", argv[0], err)
		return 127
	}

	// The child owns its copies of the redirection descriptors now.
	_ = toClose.Close()
	toClose = nil

	if pc.Background {
		index, err := s.jobs.Register(cmd.Process.Pid, line, cmd.Wait)
		if err != nil {
			// Over capacity: the process runs untracked but its
			// exit is still collected.
			fmt.Fprintf(s.stderr, "ccsh: %v\n", err)
			jobs.Reap(cmd.Wait)
			return 0
		}
		fmt.Fprintf(s.stdout, "[%d] %d\n", index, cmd.Process.Pid)
		return 0
	}

	err := cmd.Wait()
	s.checkInterrupt()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(s.stderr, "ccsh: %s: %v\n", argv[0], err)
		return 1
	}
	return 0
}

type listCloser []io.Closer

func (lc listCloser) Close() error {
	var lastErr error
	for _, v := range lc {
		if err := v.Close(); err != nil {
			lastErr = err
		}
	}

	return lastErr
}
