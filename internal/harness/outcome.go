package harness

import (
	"time"

	"github.com/roach88/mathdiff/internal/render"
)

// Outcome is the result of one renderer invocation: a successful Output or
// a failure message. The zero value is a failure with an empty message.
type Outcome struct {
	ok      bool
	output  render.Output
	message string
}

// Success returns a successful outcome carrying out.
func Success(out render.Output) Outcome {
	return Outcome{ok: true, output: out}
}

// Failure returns a failed outcome carrying msg.
func Failure(msg string) Outcome {
	return Outcome{message: msg}
}

// OK reports whether the invocation succeeded.
func (o Outcome) OK() bool { return o.ok }

// Output returns the rendered output; meaningful only when OK.
func (o Outcome) Output() render.Output { return o.output }

// Message returns the failure message; empty when OK.
func (o Outcome) Message() string { return o.message }

// String returns the output text or the failure message.
func (o Outcome) String() string {
	if o.ok {
		return o.output.String()
	}
	return o.message
}

// Sample is one timed invocation. Elapsed is recorded for failures too,
// but only successful pairs contribute to timing statistics.
type Sample struct {
	Outcome Outcome
	Elapsed time.Duration
}

// Millis returns Elapsed in fractional milliseconds.
func (s Sample) Millis() float64 {
	return float64(s.Elapsed) / float64(time.Millisecond)
}

// Pair holds both implementations' samples for one input.
type Pair struct {
	Input     Input
	Reference Sample
	Candidate Sample
}
