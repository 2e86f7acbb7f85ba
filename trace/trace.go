// SPDX-License-Identifier: MIT

// Package trace defines the diagnostic sink the prime packages report to.
//
// The counting and refinement code never prints or logs on its own. Instead
// each stage emits an Event to a Sink supplied through options; the default
// is Nop, so a call without a sink stays free of side effects. Adapters turn
// events into zap records (Zap) or Prometheus series (Metrics).
package trace

// Stage names the step of the computation an Event comes from.
type Stage int

const (
	// StageEstimate reports the asymptotic lower bound X for index N.
	StageEstimate Stage = iota
	// StageSieve reports the sieve limit (Value) and base-prime count (Count).
	StageSieve
	// StageCount reports π(Value) = Count from the counting oracle.
	StageCount
	// StageCorrect reports the refined bound Y (Value) and the remaining delta.
	StageCorrect
	// StageBackoff reports a refined bound that overshot p_N and was pulled back.
	StageBackoff
	// StageWalk reports the number of successor steps taken (Count) from Value.
	StageWalk
	// StageSequential reports a sequential enumeration of N steps.
	StageSequential
)

var stageNames = [...]string{
	StageEstimate:   "estimate",
	StageSieve:      "sieve",
	StageCount:      "count",
	StageCorrect:    "correct",
	StageBackoff:    "backoff",
	StageWalk:       "walk",
	StageSequential: "sequential",
}

// String returns the lower-case stage name.
func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}

	return stageNames[s]
}

// Event is one diagnostic record. Fields that do not apply to a stage are 0.
type Event struct {
	Stage Stage
	N     uint64 // target index
	Value uint64 // bound, limit or argument, depending on Stage
	Count uint64 // π value, list length or step count
	Delta uint64 // remaining rank distance to N
}

// Sink receives events. Implementations must be safe for the goroutine that
// runs the computation; sinks shared across concurrent calls must synchronise.
type Sink interface {
	Trace(Event)
}

// Func adapts a plain function to Sink.
type Func func(Event)

// Trace calls f(e).
func (f Func) Trace(e Event) { f(e) }

type nop struct{}

func (nop) Trace(Event) {}

// Nop discards every event.
var Nop Sink = nop{}

// Multi fans events out to every non-nil sink in order.
func Multi(sinks ...Sink) Sink {
	out := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Nop
	}

	return out
}

type multi []Sink

func (m multi) Trace(e Event) {
	for _, s := range m {
		s.Trace(e)
	}
}

// Recorder keeps every event in memory. It is meant for tests and is not
// safe for concurrent use.
type Recorder struct {
	Events []Event
}

// Trace appends e.
func (r *Recorder) Trace(e Event) { r.Events = append(r.Events, e) }

// Stages returns the recorded stages in order.
func (r *Recorder) Stages() []Stage {
	out := make([]Stage, len(r.Events))
	for i, e := range r.Events {
		out[i] = e.Stage
	}

	return out
}
