// Package executor runs external commands for the shell and implements
// job control on top of process groups.
//
// Every job is one process group led by the spawned process, so the job's
// pid is also its pgid and signals and waits target -pid. Spawning goes
// through the shell binary itself: the Spawner starts it under the name
// ChildName in a new process group (claiming the terminal first when the
// job runs in the foreground), and RunChild then resets job-control
// signals, applies redirections and execs the target program in place.
//
// The Executor owns the session's job table. It is driven from a single
// goroutine: Reap once per input cycle, Run for each external command,
// Foreground and Background for fg and bg.
//
// All operating system calls go through the System interface so the job
// control logic can be exercised without real processes.
package executor
