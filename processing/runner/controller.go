package runner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"vision/internal/config"
)

const (
	TitleError           = "Error"
	TitleProcessingError = "Processing Error"

	MsgNoSource = "Please select a source file or directory"
)

// View is the part of the window the controller drives. Implementations
// must apply calls in the order they are made; they may be called from a
// background goroutine.
type View interface {
	ClearLog()
	AppendLog(line string)
	SetBusy(busy bool)
	ShowAlert(title, message string)
}

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

type Controller struct {
	// Command starts the child process; nil means exec.CommandContext.
	Command CommandFunc

	cfg  *config.Config
	view View
	log  *slog.Logger

	mu    sync.Mutex
	state State
	wg    sync.WaitGroup
}

func NewController(cfg *config.Config, view View, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}

	return &Controller{
		cfg:  cfg,
		view: view,
		log:  logger.With("component", "runner"),
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// StartProcessing validates form and, if no run is in flight, launches the
// detector in the background. It returns ErrNoSource or ErrBusy when nothing
// was started; the outcome of the run itself is reported through the View.
func (c *Controller) StartProcessing(ctx context.Context, form FormState) error {
	if err := form.Validate(); err != nil {
		c.log.Warn("start rejected", "err", err)
		c.view.ShowAlert(TitleError, MsgNoSource)
		return err
	}

	c.mu.Lock()
	if c.state == Running {
		c.mu.Unlock()
		c.log.Debug("start ignored", "state", Running)
		return ErrBusy
	}
	c.state = Running
	c.view.ClearLog()
	c.view.SetBusy(true)
	c.mu.Unlock()

	inv := NewInvocation(c.cfg.Launcher(), form)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer c.finish()
		c.run(ctx, inv)
	}()

	return nil
}

// Wait blocks until the in-flight run, if any, has finished.
func (c *Controller) Wait() {
	c.wg.Wait()
}

func (c *Controller) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Idle
	c.view.SetBusy(false)
}

func (c *Controller) run(ctx context.Context, inv Invocation) {
	started := time.Now()
	c.log.Info("starting detector", "cmd", inv.String(), "dir", inv.Dir)

	lines := 0
	res, err := Execute(ctx, c.Command, inv, func(line string) {
		lines++
		c.view.AppendLog(line)
	})

	if err != nil {
		c.log.Error("detector fault", "err", err)
		c.view.ShowAlert(TitleError, err.Error())
		c.view.AppendLog("Exception: " + err.Error())
		return
	}

	c.log.Info("detector finished",
		"exit_code", res.ExitCode,
		"lines", lines,
		"duration", time.Since(started).Round(time.Millisecond),
	)

	var perr *ProcessError
	if errors.As(res.Err(), &perr) {
		msg := strings.TrimRight(perr.Stderr, "\r\n")
		c.log.Warn("detector wrote to stderr", "exit_code", perr.ExitCode, "bytes", len(perr.Stderr))
		c.view.AppendLog("Error: " + msg)
		c.view.ShowAlert(TitleProcessingError, msg)
	}
}
