package executor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Change is what a wait status says happened to a process.
type Change int

const (
	ChangeNone Change = iota
	ChangeExited
	ChangeSignaled
	ChangeStopped
	ChangeContinued
)

func (c Change) String() string {
	switch c {
	case ChangeExited:
		return "exited"
	case ChangeSignaled:
		return "signaled"
	case ChangeStopped:
		return "stopped"
	case ChangeContinued:
		return "continued"
	default:
		return "none"
	}
}

// Event is a decoded wait status.
type Event struct {
	PID    int
	Change Change
	// Code is the exit status, or the terminating or stopping signal.
	Code int
}

func decode(pid int, ws unix.WaitStatus) Event {
	ev := Event{PID: pid}
	switch {
	case ws.Exited():
		ev.Change, ev.Code = ChangeExited, ws.ExitStatus()
	case ws.Signaled():
		ev.Change, ev.Code = ChangeSignaled, int(ws.Signal())
	case ws.Stopped():
		ev.Change, ev.Code = ChangeStopped, int(ws.StopSignal())
	case ws.Continued():
		ev.Change = ChangeContinued
	}
	return ev
}

// jobMessage is the report for a change of tracked job jid.
func jobMessage(jid int, ev Event) string {
	switch ev.Change {
	case ChangeExited:
		return fmt.Sprintf("[%d] (%d) terminated with exit status %d", jid, ev.PID, ev.Code)
	case ChangeSignaled:
		return fmt.Sprintf("[%d] (%d) terminated by signal %d", jid, ev.PID, ev.Code)
	case ChangeStopped:
		return fmt.Sprintf("[%d] (%d) suspended by signal %d", jid, ev.PID, ev.Code)
	case ChangeContinued:
		return fmt.Sprintf("[%d] (%d) resumed", jid, ev.PID)
	default:
		return ""
	}
}

// foregroundKilledMessage is the report for a foreground job killed by a
// signal. It has no job id.
func foregroundKilledMessage(ev Event) string {
	return fmt.Sprintf("(%d) terminated by signal %d", ev.PID, ev.Code)
}
