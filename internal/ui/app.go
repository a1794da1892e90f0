package ui

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"vision/internal/config"
	"vision/internal/ui/cwidget"
	"vision/processing/runner"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	windowTitle   = "YOLOv5 Segmentation Processor"
	shutdownGrace = 2 * time.Second
)

type ProcessorApp struct {
	fyneApp fyne.App
	mainWin fyne.Window

	config     *config.Config
	controller *runner.Controller
	log        *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	pathEntry  *widget.Entry
	confInput  *cwidget.Input[float64]
	trackCheck *widget.Check
	viewCheck  *widget.Check
	progress   *widget.ProgressBarInfinite
	processBtn *widget.Button

	// Only touched on the fyne main goroutine.
	logLines []string
	logList  *widget.List
}

func CreateApp(cfg *config.Config, logger *slog.Logger) *ProcessorApp {
	return newProcessorApp(app.New(), cfg, logger)
}

func newProcessorApp(fyneApp fyne.App, cfg *config.Config, logger *slog.Logger) *ProcessorApp {
	w := fyneApp.NewWindow(windowTitle)

	width, height := cfg.GetWindowSize()
	w.Resize(fyne.NewSize(float32(width), float32(height)))

	ctx, cancel := context.WithCancel(context.Background())

	a := &ProcessorApp{
		fyneApp: fyneApp,
		mainWin: w,
		config:  cfg,
		log:     logger.With("component", "ui"),
		ctx:     ctx,
		cancel:  cancel,
	}
	a.controller = runner.NewController(cfg, a, logger)

	return a
}

func (a *ProcessorApp) Run() {
	a.mainWin.SetContent(a.buildContent())

	a.mainWin.SetOnClosed(func() {
		a.cancel()
	})

	a.mainWin.CenterOnScreen()
	a.mainWin.ShowAndRun()

	a.shutdown()
}

// shutdown kills a detector that is still running and gives it a moment to exit.
func (a *ProcessorApp) shutdown() {
	a.cancel()

	done := make(chan struct{})
	go func() {
		a.controller.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		a.log.Warn("detector still running at exit")
	}
}

func (a *ProcessorApp) buildContent() fyne.CanvasObject {
	a.pathEntry = widget.NewEntry()
	a.pathEntry.SetPlaceHolder("/path/to/images or video.mp4")

	browseBtn := widget.NewButtonWithIcon("Browse", theme.FolderOpenIcon(), a.selectSource)

	fileRow := container.NewBorder(nil, nil,
		widget.NewLabel("Select Source File/Directory:"),
		browseBtn,
		a.pathEntry,
	)

	a.confInput = cwidget.NewFloatInput(
		"Confidence Threshold",
		runner.FormatThreshold(a.config.GetConfidence()),
		a.config.GetConfidence(),
		nil,
	)

	a.trackCheck = widget.NewCheck("Enable Tracking", nil)
	a.viewCheck = widget.NewCheck("View Images During Processing", nil)

	a.progress = widget.NewProgressBarInfinite()
	a.progress.Stop()
	a.progress.Hide()

	a.processBtn = widget.NewButtonWithIcon("Process with YOLOv5", theme.MediaPlayIcon(), a.onProcess)
	a.processBtn.Importance = widget.HighImportance

	a.logList = widget.NewList(
		func() int { return len(a.logLines) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			obj.(*widget.Label).SetText(a.logLines[id])
		},
	)

	form := container.NewVBox(
		fileRow,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Processing Options", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		a.confInput,
		a.trackCheck,
		a.viewCheck,
		widget.NewSeparator(),
		a.progress,
		a.processBtn,
	)

	return container.NewPadded(container.NewBorder(form, nil, nil, nil, a.logList))
}

// formState reads the widgets. Call it on the fyne main goroutine.
func (a *ProcessorApp) formState() runner.FormState {
	return runner.FormState{
		SourcePath: a.pathEntry.Text,
		Confidence: a.confInput.Value(),
		Tracking:   a.trackCheck.Checked,
		ViewImages: a.viewCheck.Checked,
	}
}

func (a *ProcessorApp) onProcess() {
	err := a.controller.StartProcessing(a.ctx, a.formState())
	if errors.Is(err, runner.ErrBusy) {
		a.log.Debug("process clicked while running")
	}
}

// selectSource asks for a file first and falls back to a directory when the
// file dialog is cancelled.
func (a *ProcessorApp) selectSource() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.log.Warn("file dialog failed", "err", err)
			return
		}

		if reader == nil {
			a.selectSourceDir()
			return
		}
		defer reader.Close()

		a.pathEntry.SetText(reader.URI().Path())
	}, a.mainWin)

	if loc := a.startLocation(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (a *ProcessorApp) selectSourceDir() {
	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			a.log.Warn("folder dialog failed", "err", err)
			return
		}

		if uri != nil {
			a.pathEntry.SetText(uri.Path())
		}
	}, a.mainWin)

	if loc := a.startLocation(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (a *ProcessorApp) startLocation() fyne.ListableURI {
	dir := a.config.GetWorkDir()
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil
		}
		dir = wd
	}

	loc, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		a.log.Debug("dialog start location unavailable", "dir", dir, "err", err)
		return nil
	}
	return loc
}
