package runner

import (
	"errors"
	"fmt"
)

var (
	ErrNoSource = errors.New("source path is empty")
	ErrBusy     = errors.New("processing already in progress")
)

// ProcessError reports a run whose child wrote to stderr. The exit status
// alone does not decide it.
type ProcessError struct {
	Stderr   string
	ExitCode int
}

func (e *ProcessError) Error() string {
	return e.Stderr
}

// LaunchError is a failure to start or talk to the child process.
type LaunchError struct {
	Op  string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}
