package core

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"

	"github.com/abiosoft/readline"
	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/ccshell/ccsh/core/alias"
	"github.com/ccshell/ccsh/core/config"
	"github.com/ccshell/ccsh/core/expand"
	"github.com/ccshell/ccsh/core/jobs"
	"github.com/ccshell/ccsh/core/parse"
)

const (
	EnvHome = "HOME"
	EnvPath = "PATH"

	// interruptHint is printed instead of dying when SIGINT arrives.
	interruptHint = "Use 'exit' to quit."
)

var promptColor = color.New(color.FgGreen, color.Bold)

// Shell is the command execution and job control engine. One instance serves
// one interactive session; all of its tables are mutated from the main loop
// only.
type Shell struct {
	Config *config.Configuration

	stdout io.Writer
	stderr io.Writer
	fs     afero.Fs

	aliases *alias.Table
	jobs    *jobs.Table

	// interrupted is the only state the SIGINT handler touches. The main
	// loop polls and clears it after every blocking point.
	interrupted atomic.Bool

	lastRet int
	quit    bool
}

// NewShell builds a shell against the real OS, writing to stdout/stderr.
func NewShell(cfg *config.Configuration) *Shell {
	return &Shell{
		Config:  cfg,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
		fs:      afero.NewOsFs(),
		aliases: alias.NewTable(),
		jobs:    jobs.NewTable(),
	}
}

// LastRet reports the exit status of the most recent command.
func (s *Shell) LastRet() int { return s.lastRet }

func (s *Shell) home() string {
	return os.Getenv(EnvHome)
}

// prompt renders the configured prompt, expanding \w to the working
// directory with the home prefix abbreviated to ~.
func (s *Shell) prompt() string {
	prompt := s.Config.Prompt

	if strings.Contains(prompt, `\w`) {
		wd, err := os.Getwd()
		if err != nil {
			wd = "?"
		}
		if home := s.home(); home != "" && strings.HasPrefix(wd, home) {
			wd = "~" + strings.TrimPrefix(wd, home)
		}
		prompt = strings.ReplaceAll(prompt, `\w`, wd)
	}

	if s.Config.ColorPrompt {
		prompt = promptColor.Sprint(prompt)
	}
	return prompt
}

// Run drives the interactive loop until `exit` or end of input. The return
// value is the interpreter's exit status: errors inside the loop are printed
// and never change it.
func (s *Shell) Run() int {
	stop := s.notifyInterrupt()
	defer stop()

	s.sourceStartupFile()

	cfg := &readline.Config{
		Prompt:      s.prompt(),
		HistoryFile: expand.Tilde(s.Config.HistoryFile, s.home()),
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		// No terminal to drive; fall back to plain line reading.
		return s.runPlain(os.Stdin)
	}
	defer rl.Close()

	for !s.quit {
		rl.SetPrompt(s.prompt())
		line, err := rl.Readline()

		switch {
		case err == io.EOF:
			return 0 // Input closed, quit.

		case err == readline.ErrInterrupt:
			s.interrupted.Store(false)
			fmt.Fprintln(s.stdout, interruptHint)
			continue

		case err != nil:
			log.Printf("readline: %v", err)
			continue
		}

		s.reportFinishedJobs()
		s.checkInterrupt()
		s.ExecuteLine(line)
	}
	return 0
}

// runPlain reads lines without readline; used when no PTY is available and
// for piped input.
func (s *Shell) runPlain(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	for !s.quit {
		fmt.Fprint(s.stdout, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(s.stdout)
			return 0
		}
		s.reportFinishedJobs()
		s.checkInterrupt()
		s.ExecuteLine(scanner.Text())
	}
	return 0
}

// Source executes a reader line by line through the same path as interactive
// input. Blank lines and # comments are skipped. Used for the startup file
// and script mode.
func (s *Shell) Source(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	for !s.quit && scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		s.reportFinishedJobs()
		s.ExecuteLine(line)
	}
	return scanner.Err()
}

func (s *Shell) sourceStartupFile() {
	if s.Config.StartupFile == "" {
		return
	}
	fd, err := s.Config.OpenStartupFile()
	if err != nil {
		// Nothing to source.
		return
	}
	defer fd.Close()

	if err := s.Source(fd); err != nil {
		fmt.Fprintf(s.stderr, "ccsh: %s: %v\n", s.Config.StartupFile, err)
	}
}

// ExecuteLine runs one input line: alias expansion, tokenization, redirection
// parsing, then builtin dispatch or external launch. Every error is printed
// and absorbed here; the loop always continues.
func (s *Shell) ExecuteLine(line string) {
	expanded := s.aliases.ExpandLine(line)

	cmd, err := parse.ParseLine(expanded)
	if err != nil {
		fmt.Fprintf(s.stderr, "ccsh: %v\n", err)
		s.lastRet = 2
		return
	}
	if cmd.Empty() {
		return
	}

	if builtin, ok := AllBuiltins[cmd.Argv[0]]; ok {
		s.lastRet = builtin.Main(s, cmd.Argv)
		return
	}

	s.lastRet = s.runExternal(strings.TrimSpace(line), cmd)
}

// reportFinishedJobs performs the per-iteration non-blocking poll.
func (s *Shell) reportFinishedJobs() {
	for _, j := range s.jobs.Poll() {
		fmt.Fprintf(s.stdout, "[done] %s\n", j.Command)
	}
}

// notifyInterrupt installs the SIGINT handler. The handler only sets a flag:
// printing happens on the main loop so in-progress output is never corrupted.
func (s *Shell) notifyInterrupt() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		for range ch {
			s.interrupted.Store(true)
		}
	}()
	return func() {
		signal.Stop(ch)
		close(ch)
	}
}

// checkInterrupt prints the hint if SIGINT arrived since the last check.
func (s *Shell) checkInterrupt() {
	if s.interrupted.CompareAndSwap(true, false) {
		fmt.Fprintln(s.stdout, interruptHint)
	}
}
