package runner

import (
	"testing"
	"time"

	"vision/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLauncher = config.Launcher{
	Interpreter: "python3",
	Script:      "detect.py",
	WaitDelay:   time.Second,
}

func TestInvocationArgs_Defaults(t *testing.T) {
	inv := NewInvocation(testLauncher, FormState{SourcePath: "/data/images", Confidence: 0.25})

	assert.Equal(t, "python3", inv.Executable)
	assert.Equal(t,
		[]string{"detect.py", "--source", "/data/images", "--conf-thres", "0.25"},
		inv.Args(),
	)
}

func TestInvocationArgs_OptionalFlags(t *testing.T) {
	tests := []struct {
		name     string
		tracking bool
		view     bool
		tail     []string
	}{
		{"none", false, false, nil},
		{"tracking", true, false, []string{"--trk"}},
		{"view", false, true, []string{"--view-img"}},
		{"both", true, true, []string{"--trk", "--view-img"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvocation(testLauncher, FormState{
				SourcePath: "clip.mp4",
				Confidence: 0.5,
				Tracking:   tt.tracking,
				ViewImages: tt.view,
			})

			args := inv.Args()
			require.Len(t, args, 5+len(tt.tail))
			assert.Equal(t, tt.tail, nilIfEmpty(args[5:]))

			for _, a := range args {
				assert.NotContains(t, a, "=false")
			}
		})
	}
}

func TestInvocationArgs_NoScript(t *testing.T) {
	l := testLauncher
	l.Interpreter = "/usr/local/bin/yolo-detect"
	l.Script = ""

	inv := NewInvocation(l, FormState{SourcePath: "a.jpg", Confidence: 0.25})
	assert.Equal(t, []string{"--source", "a.jpg", "--conf-thres", "0.25"}, inv.Args())
	assert.Equal(t, "/usr/local/bin/yolo-detect --source a.jpg --conf-thres 0.25", inv.String())
}

func TestFormatThreshold(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.25, "0.25"},
		{0.5, "0.5"},
		{1, "1.0"},
		{0, "0.0"},
		{0.001, "0.001"},
		{1e-05, "1e-05"},
		{-0.1, "-0.1"},
		{0.0001, "0.0001"},
		{1e6, "1000000.0"},
		{1234567, "1234567.0"},
		{1e16, "1e+16"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatThreshold(tt.in), "FormatThreshold(%v)", tt.in)
	}
}

func TestFormStateValidate(t *testing.T) {
	assert.ErrorIs(t, FormState{}.Validate(), ErrNoSource)
	assert.NoError(t, FormState{SourcePath: "   "}.Validate())
	assert.NoError(t, FormState{SourcePath: "/data"}.Validate())
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
