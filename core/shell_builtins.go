package core

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	shlex "github.com/anmitsu/go-shlex"
	"github.com/pborman/getopt/v2"

	"github.com/ccshell/ccsh/core/alias"
	"github.com/ccshell/ccsh/core/jobs"
)

// AllBuiltins holds a list of all registered shell builtins
var AllBuiltins = make(map[string]ShellBuiltin)

type ShellBuiltin interface {
	Main(s *Shell, args []string) int
}

type ShellBuiltinFunc func(s *Shell, args []string) int

func (f ShellBuiltinFunc) Main(s *Shell, args []string) int {
	return f(s, args)
}

var _ ShellBuiltin = (ShellBuiltinFunc)(nil)

// ListBuiltins returns the registered builtin names in sorted order.
func ListBuiltins() []string {
	var names []string
	for k := range AllBuiltins {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Cd is the cd shell builtin. Without an argument it changes to $HOME. On
// failure the working directory is left unchanged.
func Cd(s *Shell, args []string) int {
	switch len(args) {
	case 1:
		args = append(args, s.home())
		fallthrough
	case 2:
		if err := os.Chdir(args[1]); err != nil {
			fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			return 1
		}
	default:
		fmt.Fprintf(s.stderr, "%s: too many arguments\n", args[0])
		return 1
	}
	return 0
}

// Pwd prints the working directory.
func Pwd(s *Shell, args []string) int {
	wd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
		return 1
	}
	fmt.Fprintln(s.stdout, wd)
	return 0
}

// Exit quits the shell. Arguments are ignored.
func Exit(s *Shell, args []string) int {
	s.quit = true
	return 0
}

// Jobs lists the tracked background jobs.
func Jobs(s *Shell, args []string) int {
	opts := getopt.New()
	pidOnly := opts.Bool('p', "print process IDs only")
	helpOpt := opts.BoolLong("help", 'h', "show help and exit")

	if err := opts.Getopt(args, nil); err != nil || *helpOpt {
		w := s.stderr
		if err != nil {
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "usage: jobs [-p]")
		fmt.Fprintln(w, "List background jobs.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Options:")
		opts.PrintOptions(w)
		if err != nil {
			return 1
		}
		return 0
	}

	if s.jobs.Len() == 0 {
		fmt.Fprintln(s.stdout, "No background jobs.")
		return 0
	}

	for i, j := range s.jobs.Jobs() {
		if *pidOnly {
			fmt.Fprintln(s.stdout, j.PID)
		} else {
			fmt.Fprintf(s.stdout, "[%d] %d %s\n", i, j.PID, j.Command)
		}
	}
	return 0
}

// Fg blocks until the selected job's process exits, then drops it from the
// table. The table is untouched when the index is bad.
func Fg(s *Shell, args []string) int {
	if len(args) != 2 {
		fmt.Fprintf(s.stderr, "usage: %s <job>\n", args[0])
		return 1
	}

	index, err := strconv.Atoi(args[1])
	if err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", args[0], jobs.ErrInvalidIndex)
		return 1
	}

	if _, err := s.jobs.Wait(index); err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
		return 1
	}
	s.checkInterrupt()
	return 0
}

// Alias lists all aliases or defines new ones. Definitions are name=value
// with optional quoting around the value, quoting parsed shell-style so
// values may contain spaces.
func Alias(s *Shell, args []string) int {
	if len(args) == 1 {
		for _, e := range s.aliases.All() {
			fmt.Fprintf(s.stdout, "alias %s='%s'\n", e.Name, e.Value)
		}
		return 0
	}

	fields, err := shlex.Split(strings.Join(args[1:], " "), true)
	if err != nil {
		fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
		return 1
	}

	for _, field := range fields {
		name, value, ok := strings.Cut(field, "=")
		if !ok || name == "" {
			fmt.Fprintf(s.stderr, "usage: %s name='value'\n", args[0])
			return 1
		}
		if err := s.aliases.Set(name, value); err != nil {
			fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			return 1
		}
	}
	return 0
}

// Unalias removes an alias by name.
func Unalias(s *Shell, args []string) int {
	if len(args) < 2 {
		fmt.Fprintf(s.stderr, "usage: %s name\n", args[0])
		return 1
	}

	ret := 0
	for _, name := range args[1:] {
		if err := s.aliases.Remove(name); err != nil {
			if errors.Is(err, alias.ErrNotFound) {
				fmt.Fprintf(s.stderr, "%s: %s: not found\n", args[0], name)
			} else {
				fmt.Fprintf(s.stderr, "%s: %v\n", args[0], err)
			}
			ret = 1
		}
	}
	return ret
}

// Help prints the static usage text.
func Help(s *Shell, args []string) int {
	w := s.stdout
	fmt.Fprintln(w, "Supported features:")
	fmt.Fprintln(w, "  Built-in: "+strings.Join(ListBuiltins(), ", "))
	fmt.Fprintln(w, "  I/O Redirection: <, >, >>")
	fmt.Fprintln(w, "  Background jobs: & (with fg and jobs to control)")
	fmt.Fprintln(w, "  Globbing: *, ?")
	fmt.Fprintln(w, "  Aliases: alias name='value', unalias name")
	fmt.Fprintln(w, "  Command history with arrow keys")
	return 0
}

func init() {
	AllBuiltins["exit"] = ShellBuiltinFunc(Exit)
	AllBuiltins["cd"] = ShellBuiltinFunc(Cd)
	AllBuiltins["pwd"] = ShellBuiltinFunc(Pwd)
	AllBuiltins["jobs"] = ShellBuiltinFunc(Jobs)
	AllBuiltins["fg"] = ShellBuiltinFunc(Fg)
	AllBuiltins["alias"] = ShellBuiltinFunc(Alias)
	AllBuiltins["unalias"] = ShellBuiltinFunc(Unalias)
	AllBuiltins["help"] = ShellBuiltinFunc(Help)
}
