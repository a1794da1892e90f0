package runner

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// CommandFunc creates the child process. It matches exec.CommandContext so
// tests can substitute their own.
type CommandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd

type Result struct {
	Stderr   string
	ExitCode int
}

// Err returns a *ProcessError when the child wrote anything to stderr.
func (r Result) Err() error {
	if r.Stderr == "" {
		return nil
	}
	return &ProcessError{Stderr: r.Stderr, ExitCode: r.ExitCode}
}

// Execute runs inv to completion. Every stdout line is passed to onLine in
// the order the child wrote it; stderr is buffered and returned only after
// stdout is drained and the child has exited. A non-zero exit is reported
// through Result, not as an error.
func Execute(ctx context.Context, command CommandFunc, inv Invocation, onLine func(string)) (Result, error) {
	if command == nil {
		command = exec.CommandContext
	}

	cmd := command(ctx, inv.Executable, inv.Args()...)
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}
	if inv.WaitDelay > 0 {
		cmd.WaitDelay = inv.WaitDelay
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return Result{}, &LaunchError{Op: "open stdout", Err: err}
	}

	if err := cmd.Start(); err != nil {
		return Result{}, &LaunchError{Op: "start " + inv.Executable, Err: err}
	}

	readErr := readLines(stdout, onLine)
	if readErr != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}

	waitErr := cmd.Wait()

	res := Result{Stderr: stderr.String(), ExitCode: -1}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if readErr != nil {
		return res, &LaunchError{Op: "read stdout", Err: readErr}
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return res, &LaunchError{Op: "wait", Err: waitErr}
	}

	return res, nil
}

func readLines(r io.Reader, onLine func(string)) error {
	br := bufio.NewReader(r)

	for {
		line, err := br.ReadString('\n')
		if line != "" {
			onLine(strings.TrimRight(line, "\r\n"))
		}

		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}
