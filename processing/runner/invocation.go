package runner

import (
	"math"
	"strconv"
	"strings"
	"time"

	"vision/internal/config"
)

type Invocation struct {
	Executable string
	Script     string
	Dir        string
	WaitDelay  time.Duration

	Source     string
	Confidence float64
	Tracking   bool
	ViewImages bool
}

func NewInvocation(l config.Launcher, f FormState) Invocation {
	return Invocation{
		Executable: l.Interpreter,
		Script:     l.Script,
		Dir:        l.WorkDir,
		WaitDelay:  l.WaitDelay,
		Source:     f.SourcePath,
		Confidence: f.Confidence,
		Tracking:   f.Tracking,
		ViewImages: f.ViewImages,
	}
}

// Args returns the argument list passed after the executable.
func (inv Invocation) Args() []string {
	args := make([]string, 0, 7)

	if inv.Script != "" {
		args = append(args, inv.Script)
	}

	args = append(args,
		"--source", inv.Source,
		"--conf-thres", FormatThreshold(inv.Confidence),
	)

	if inv.Tracking {
		args = append(args, "--trk")
	}
	if inv.ViewImages {
		args = append(args, "--view-img")
	}

	return args
}

func (inv Invocation) String() string {
	return strings.Join(append([]string{inv.Executable}, inv.Args()...), " ")
}

// FormatThreshold prints v like Python's str(float): fixed notation with at
// least one decimal, switching to exponents below 1e-4 and from 1e16 up.
func FormatThreshold(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	if abs := math.Abs(v); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
