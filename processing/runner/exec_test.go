package runner

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, scenario string, inv Invocation) ([]string, Result, error) {
	t.Helper()

	var lines []string
	res, err := Execute(context.Background(), helperCommand(scenario), inv, func(l string) {
		lines = append(lines, l)
	})
	return lines, res, err
}

func TestExecute_StdoutOrder(t *testing.T) {
	lines, res, err := collect(t, "three-lines", Invocation{Executable: "python3"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"image 1/3 bus.jpg: 4 persons, 1 bus",
		"image 2/3 zidane.jpg: 2 persons, 1 tie",
		"image 3/3 dog.jpg: 1 dog",
	}, lines)
	assert.Equal(t, 0, res.ExitCode)
	assert.Empty(t, res.Stderr)
	assert.NoError(t, res.Err())
}

func TestExecute_PassesArguments(t *testing.T) {
	inv := NewInvocation(testLauncher, FormState{
		SourcePath: "/data/images",
		Confidence: 0.25,
		Tracking:   true,
		ViewImages: true,
	})

	lines, _, err := collect(t, "args", inv)
	require.NoError(t, err)

	assert.Equal(t, append([]string{"python3"}, inv.Args()...), lines)
}

func TestExecute_StderrBecomesProcessError(t *testing.T) {
	lines, res, err := collect(t, "warning", Invocation{Executable: "python3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"image 1/1 bus.jpg: 4 persons"}, lines)
	assert.Equal(t, 0, res.ExitCode)

	var perr *ProcessError
	require.ErrorAs(t, res.Err(), &perr)
	assert.Equal(t, "warning: low confidence\n", perr.Stderr)
}

func TestExecute_NonZeroExit(t *testing.T) {
	lines, res, err := collect(t, "fail", Invocation{Executable: "python3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"loading model"}, lines)
	assert.Equal(t, 2, res.ExitCode)
	assert.Contains(t, res.Stderr, "yolov5s.pt")
}

func TestExecute_SilentNonZeroExitIsNotAnError(t *testing.T) {
	lines, res, err := collect(t, "silent-fail", Invocation{Executable: "python3"})
	require.NoError(t, err)

	assert.Empty(t, lines)
	assert.Equal(t, 3, res.ExitCode)
	assert.NoError(t, res.Err())
}

func TestExecute_LineEndings(t *testing.T) {
	lines, _, err := collect(t, "crlf", Invocation{Executable: "python3"})
	require.NoError(t, err)

	assert.Equal(t, []string{"first", "second", "no newline at end"}, lines)
}

func TestExecute_LongLine(t *testing.T) {
	lines, _, err := collect(t, "long-line", Invocation{Executable: "python3"})
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Len(t, lines[0], 256*1024)
}

func TestExecute_MissingExecutable(t *testing.T) {
	called := false
	_, err := Execute(context.Background(), nil,
		Invocation{Executable: "/nonexistent/yolo-detector-binary"},
		func(string) { called = true },
	)

	var lerr *LaunchError
	require.ErrorAs(t, err, &lerr)
	assert.True(t, strings.HasPrefix(lerr.Op, "start"))
	assert.False(t, called)
}

func TestExecute_NotFoundInPath(t *testing.T) {
	_, err := Execute(context.Background(), exec.CommandContext,
		Invocation{Executable: "yolo-detector-binary-that-does-not-exist"},
		func(string) {},
	)

	assert.ErrorIs(t, err, exec.ErrNotFound)
}
