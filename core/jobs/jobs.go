// Package jobs tracks background processes started by the interpreter.
//
// The table only ever records processes this interpreter spawned itself; it
// never waits on process IDs it did not create.
package jobs

import "errors"

// DefaultCapacity bounds the number of tracked background jobs.
const DefaultCapacity = 64

// ErrCapacityExceeded is returned by Register when the table is full. The
// process keeps running untracked; use Reap so its exit is still collected.
var ErrCapacityExceeded = errors.New("job table full")

// ErrInvalidIndex is returned for job indexes outside [0, Len).
var ErrInvalidIndex = errors.New("invalid job index")

// WaitFunc blocks until the underlying process exits and returns its wait
// error, exec.Cmd.Wait being the usual implementation.
type WaitFunc func() error

// Job is one tracked background process.
type Job struct {
	// PID of the spawned process.
	PID int
	// Command is the originating command text, kept for notices.
	Command string

	done    chan struct{}
	waitErr error
}

// Finished reports whether the process has exited, without blocking.
func (j *Job) Finished() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Table is a bounded, insertion-ordered collection of live jobs. It is
// mutated only from the interpreter's main loop; the per-job waiter
// goroutines communicate exits solely by closing the job's done channel.
type Table struct {
	jobs     []*Job
	capacity int
}

// NewTable returns an empty table bounded at DefaultCapacity.
func NewTable() *Table {
	return &Table{capacity: DefaultCapacity}
}

// Register starts tracking a process and returns its display index. The wait
// function is consumed on a fresh goroutine so a later Poll or Wait can
// observe the exit without blocking the caller now.
func (t *Table) Register(pid int, command string, wait WaitFunc) (int, error) {
	if len(t.jobs) >= t.capacity {
		return 0, ErrCapacityExceeded
	}

	j := &Job{
		PID:     pid,
		Command: command,
		done:    make(chan struct{}),
	}
	go func() {
		j.waitErr = wait()
		close(j.done)
	}()

	t.jobs = append(t.jobs, j)
	return len(t.jobs) - 1, nil
}

// Reap collects the eventual exit of a process that is not tracked, so the
// OS entry is not leaked. No completion notice will ever be produced for it.
func Reap(wait WaitFunc) {
	go func() { _ = wait() }()
}

// Poll removes and returns every finished job, compacting the table while
// preserving the relative order of the jobs that remain. It never blocks.
func (t *Table) Poll() []*Job {
	var finished []*Job
	kept := t.jobs[:0]
	for _, j := range t.jobs {
		if j.Finished() {
			finished = append(finished, j)
		} else {
			kept = append(kept, j)
		}
	}
	for i := len(kept); i < len(t.jobs); i++ {
		t.jobs[i] = nil
	}
	t.jobs = kept
	return finished
}

// Wait blocks until the job at index exits, removes it from the table and
// returns it. The table is left unmodified on ErrInvalidIndex.
func (t *Table) Wait(index int) (*Job, error) {
	if index < 0 || index >= len(t.jobs) {
		return nil, ErrInvalidIndex
	}

	j := t.jobs[index]
	<-j.done
	t.jobs = append(t.jobs[:index], t.jobs[index+1:]...)
	return j, nil
}

// Jobs returns the live jobs in registration order. The slice is shared;
// callers must not mutate it.
func (t *Table) Jobs() []*Job {
	return t.jobs
}

// Len reports the number of tracked jobs.
func (t *Table) Len() int {
	return len(t.jobs)
}
