package cwidget

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

var ErrNotANumber = errors.New("not a number")

// Input is a labelled entry that only accepts text its Validator can parse.
// The label shows the last accepted value.
type Input[T any] struct {
	widget.BaseWidget

	labelWidget *widget.Label
	entryWidget *widget.Entry
	errorWidget *widget.Label

	LabelText   string
	Placeholder string

	DefaultValue T

	OnChanged func(T)

	Validator func(string) (T, error)
	Format    func(T) string

	value T
}

func newInput[T any](label, placeholder string, defaultValue T, onChanged func(T)) *Input[T] {
	input := &Input[T]{
		LabelText:    label,
		Placeholder:  placeholder,
		OnChanged:    onChanged,
		DefaultValue: defaultValue,
		value:        defaultValue,
		Format:       func(v T) string { return fmt.Sprint(v) },
	}

	input.labelWidget = widget.NewLabel("")
	input.labelWidget.TextStyle = fyne.TextStyle{Bold: true}

	input.entryWidget = widget.NewEntry()
	input.entryWidget.SetPlaceHolder(placeholder)

	input.errorWidget = widget.NewLabel("")
	input.errorWidget.Hidden = true
	input.errorWidget.TextStyle = fyne.TextStyle{Italic: true}
	input.errorWidget.Importance = widget.DangerImportance

	input.entryWidget.OnChanged = func(s string) {
		res, err := input.Validator(s)
		input.SetError(err)

		if err == nil {
			input.value = res
			input.refreshLabel()
			if input.OnChanged != nil {
				input.OnChanged(res)
			}
		}
	}

	return input
}

// NewFloatInput accepts any finite number. An empty entry means the default.
func NewFloatInput(label, placeholder string, defaultValue float64, onChanged func(float64)) *Input[float64] {
	input := newInput(label, placeholder, defaultValue, onChanged)

	input.Validator = func(s string) (float64, error) {
		s = strings.TrimSpace(s)
		if s == "" {
			return input.DefaultValue, nil
		}

		res, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(res) || math.IsInf(res, 0) {
			return input.DefaultValue, ErrNotANumber
		}

		return res, nil
	}
	input.Format = func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	input.refreshLabel()
	input.ExtendBaseWidget(input)

	return input
}

func (item *Input[T]) CreateRenderer() fyne.WidgetRenderer {
	c := container.NewVBox(
		item.labelWidget,
		item.entryWidget,
		item.errorWidget,
	)

	return widget.NewSimpleRenderer(c)
}

// Value is the last value the validator accepted.
func (item *Input[T]) Value() T {
	return item.value
}

func (item *Input[T]) SetError(err error) {
	item.errorWidget.Hidden = err == nil
	if err != nil {
		item.errorWidget.SetText(err.Error())
	}
	item.errorWidget.Refresh()
}

func (item *Input[T]) refreshLabel() {
	item.labelWidget.SetText(fmt.Sprintf("%s: %s", item.LabelText, item.Format(item.value)))
}
