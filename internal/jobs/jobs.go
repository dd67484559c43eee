// Package jobs holds the shell's table of background and stopped jobs.
//
// A Table is owned by a single shell session and is not safe for
// concurrent use.
package jobs

import (
	"errors"
	"fmt"
)

// State is the run state of a tracked job. There is no done state: a job
// leaves the table as soon as it is seen to exit.
type State int

const (
	Running State = iota
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "Running"
	case Stopped:
		return "Stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Job is one tracked process group. PGID is also the pid of the group
// leader.
type Job struct {
	ID    int
	PGID  int
	Cmd   string
	State State
}

var (
	ErrNotFound     = errors.New("no such job")
	ErrTableFull    = errors.New("job table full")
	ErrDuplicatePID = errors.New("pid already tracked")
	ErrOutOfOrder   = errors.New("job id not greater than previous job id")
	ErrInvalidJob   = errors.New("invalid job")
	ErrClosed       = errors.New("job table cleared")
)

// DefaultCapacity is used when NewTable is given a non-positive capacity.
const DefaultCapacity = 64

// Table maps job ids to jobs. Entries are kept in insertion order, which
// is also ascending id order.
type Table struct {
	jobs     []Job
	capacity int
	issued   int // last id returned by NextID
	added    int // highest id ever inserted
	closed   bool
}

func NewTable(capacity int) *Table {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Table{capacity: capacity}
}

// NextID reserves a fresh job id. Ids are never reused, even when the
// reserved id is never inserted.
func (t *Table) NextID() int {
	if t.added > t.issued {
		t.issued = t.added
	}
	t.issued++
	return t.issued
}

// Add inserts a job. The id must be larger than every id inserted before,
// including ids of jobs already removed.
func (t *Table) Add(id, pgid int, state State, cmd string) error {
	if t.closed {
		return ErrClosed
	}
	if id <= 0 || pgid <= 0 {
		return fmt.Errorf("%w: jid %d pid %d", ErrInvalidJob, id, pgid)
	}
	if len(t.jobs) >= t.capacity {
		return fmt.Errorf("%w (%d jobs)", ErrTableFull, t.capacity)
	}
	if id <= t.added {
		return fmt.Errorf("%w: %d", ErrOutOfOrder, id)
	}
	if t.indexByPID(pgid) >= 0 {
		return fmt.Errorf("%w: %d", ErrDuplicatePID, pgid)
	}

	t.jobs = append(t.jobs, Job{
		ID:    id,
		PGID:  pgid,
		Cmd:   cmd,
		State: state,
	})
	t.added = id
	return nil
}

func (t *Table) RemoveByJID(id int) error {
	return t.removeAt(t.indexByJID(id))
}

func (t *Table) RemoveByPID(pgid int) error {
	return t.removeAt(t.indexByPID(pgid))
}

func (t *Table) SetStateByJID(id int, state State) error {
	return t.setStateAt(t.indexByJID(id), state)
}

func (t *Table) SetStateByPID(pgid int, state State) error {
	return t.setStateAt(t.indexByPID(pgid), state)
}

// PID returns the process group of job id.
func (t *Table) PID(id int) (int, error) {
	i := t.indexByJID(id)
	if i < 0 {
		return 0, ErrNotFound
	}
	return t.jobs[i].PGID, nil
}

// JID returns the job id tracking process group pgid.
func (t *Table) JID(pgid int) (int, error) {
	i := t.indexByPID(pgid)
	if i < 0 {
		return 0, ErrNotFound
	}
	return t.jobs[i].ID, nil
}

// Get returns a copy of the job with the given id.
func (t *Table) Get(id int) (Job, error) {
	i := t.indexByJID(id)
	if i < 0 {
		return Job{}, ErrNotFound
	}
	return t.jobs[i], nil
}

// List returns a copy of all jobs in ascending id order.
func (t *Table) List() []Job {
	result := make([]Job, len(t.jobs))
	copy(result, t.jobs)
	return result
}

func (t *Table) Len() int {
	return len(t.jobs)
}

// Clear drops every entry. The table must not be used afterwards; a
// second Clear is a no-op.
func (t *Table) Clear() {
	if t.closed {
		return
	}
	t.jobs = nil
	t.closed = true
}

func (t *Table) removeAt(i int) error {
	if i < 0 {
		return ErrNotFound
	}
	t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
	return nil
}

func (t *Table) setStateAt(i int, state State) error {
	if i < 0 {
		return ErrNotFound
	}
	t.jobs[i].State = state
	return nil
}

func (t *Table) indexByJID(id int) int {
	for i := range t.jobs {
		if t.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (t *Table) indexByPID(pgid int) int {
	for i := range t.jobs {
		if t.jobs[i].PGID == pgid {
			return i
		}
	}
	return -1
}
