package progress

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/zerotreasury/zdao/internal/config"
	"github.com/zerotreasury/zdao/internal/usecase"
)

// SpinnerProgressReporter shows progress events behind a terminal spinner and
// prints a summary line for every finished stage
type SpinnerProgressReporter struct {
	out          io.Writer
	spinner      *spinner.Spinner
	currentStage string
	stageStart   time.Time
	stages       []stageInfo
}

type stageInfo struct {
	Stage    string
	Message  string
	Duration time.Duration
}

// NewSpinnerProgressReporter creates a spinner writing to out
func NewSpinnerProgressReporter(out io.Writer) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false

	return &SpinnerProgressReporter{
		out:     out,
		spinner: s,
	}
}

// NewProgressSink picks the sink for the current output mode. JSON output and
// non-interactive runs get no progress at all.
func NewProgressSink(cfg *config.RuntimeConfig) usecase.ProgressSink {
	if cfg.JSON || cfg.NonInteractive {
		return usecase.NopProgress{}
	}
	return NewSpinnerProgressReporter(os.Stderr)
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	if event.Stage != r.currentStage {
		r.completeCurrentStage()
		r.currentStage = event.Stage
		r.stageStart = time.Now()
	}

	message := event.Message
	if event.Total > 0 {
		message = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, message)
	}
	if len(r.stages) == 0 || r.stages[len(r.stages)-1].Stage != event.Stage {
		r.stages = append(r.stages, stageInfo{Stage: event.Stage})
	}
	r.stages[len(r.stages)-1].Message = message

	if event.Spinner {
		r.spinner.Suffix = " " + message
		if !r.spinner.Active() {
			r.spinner.Start()
		}
		return
	}
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.withSpinnerPaused(func() {
		color.New(color.FgCyan).Fprintln(r.out, message)
	})
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.withSpinnerPaused(func() {
		color.New(color.FgRed).Fprintln(r.out, message)
	})
}

// Stages returns the stages seen so far with their last message
func (r *SpinnerProgressReporter) Stages() []stageInfo {
	return r.stages
}

func (r *SpinnerProgressReporter) withSpinnerPaused(fn func()) {
	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	fn()
	if wasActive {
		r.spinner.Start()
	}
}

// completeCurrentStage records how long the running stage took
func (r *SpinnerProgressReporter) completeCurrentStage() {
	if r.currentStage == "" || len(r.stages) == 0 {
		return
	}
	r.stages[len(r.stages)-1].Duration = time.Since(r.stageStart).Round(time.Millisecond)
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
