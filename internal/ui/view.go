package ui

import (
	"strings"
	"vision/processing/runner"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

var _ runner.View = (*ProcessorApp)(nil)

// The methods below implement runner.View. The controller calls them from
// its run goroutine, so every widget change goes through fyne.Do, which keeps
// submission order.

func (a *ProcessorApp) ClearLog() {
	fyne.Do(func() {
		a.logLines = nil
		a.logList.Refresh()
	})
}

func (a *ProcessorApp) AppendLog(line string) {
	fyne.Do(func() {
		a.logLines = append(a.logLines, strings.Split(line, "\n")...)
		a.logList.Refresh()
		a.logList.ScrollToBottom()
	})
}

func (a *ProcessorApp) SetBusy(busy bool) {
	fyne.Do(func() {
		if busy {
			a.progress.Show()
			a.progress.Start()
			a.processBtn.Disable()
			return
		}

		a.progress.Stop()
		a.progress.Hide()
		a.processBtn.Enable()
	})
}

func (a *ProcessorApp) ShowAlert(title, message string) {
	fyne.Do(func() {
		msg := widget.NewLabel(message)
		msg.Wrapping = fyne.TextWrapWord

		scroll := container.NewVScroll(msg)
		scroll.SetMinSize(fyne.NewSize(420, 120))

		dialog.ShowCustom(title, "OK", scroll, a.mainWin)
	})
}
