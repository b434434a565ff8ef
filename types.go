package cardgen

import (
	"time"

	"github.com/alnah/go-cardgen/internal/category"
)

// Stage is a step of the generation state machine.
type Stage int

// Generation stages, in order. StageFailed can follow any stage.
const (
	StageInit Stage = iota
	StageLoading
	StageIterating
	StagePackaging
	StageDone
	StageFailed
)

var stageNames = [...]string{"init", "loading", "iterating", "packaging", "done", "failed"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// RenderPolicy decides what a render failure does to the run.
type RenderPolicy int

const (
	// AbortOnError ends the run on the first render failure.
	AbortOnError RenderPolicy = iota
	// SkipOnError drops the failing row and continues.
	SkipOnError
)

func (p RenderPolicy) String() string {
	if p == SkipOnError {
		return "skip"
	}
	return "abort"
}

// ParseRenderPolicy maps "abort" and "skip" to a RenderPolicy.
// Anything else, including "", is AbortOnError.
func ParseRenderPolicy(s string) RenderPolicy {
	if s == "skip" {
		return SkipOnError
	}
	return AbortOnError
}

// Row outcomes reported to a Recorder.
const (
	OutcomeKept            = "kept"
	OutcomeUnrecognized    = "unrecognized"
	OutcomeMissingTemplate = "missing_template"
	OutcomeRenderFailed    = "render_failed"
)

// Run results reported to a Recorder.
const (
	ResultSuccess = "success"
	ResultFailed  = "failed"
)

// BoundDocument is a template with every placeholder substituted for one row.
// It is self-contained: assets are inlined, nothing is fetched while rendering.
type BoundDocument struct {
	Row      int // 1-based data row number in the sheet
	Category category.Category
	HTML     string
}

// Report summarizes one Generate call.
type Report struct {
	RunID           string
	Stage           Stage // StageDone on success, StageFailed otherwise
	Rows            int   // data rows read from the sheet
	Kept            int   // cards in the archive
	Unrecognized    int
	MissingTemplate int
	RenderFailed    int      // only non-zero under SkipOnError
	Entries         []string // archive entry names, in order
	Duration        time.Duration
}

// Skipped is the number of rows that produced no card.
func (r *Report) Skipped() int {
	return r.Unrecognized + r.MissingTemplate + r.RenderFailed
}

// Recorder observes generation runs. Implementations must be safe for
// concurrent use.
type Recorder interface {
	ObserveRow(outcome string)
	ObserveRender(d time.Duration)
	ObserveRun(result string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveRow(string) {}

func (nopRecorder) ObserveRender(time.Duration) {}

func (nopRecorder) ObserveRun(string) {}
