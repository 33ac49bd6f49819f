// Package events carries progress notifications out of the pipeline stages.
// Stages never log directly; they emit events to an optional Observer.
package events

// Kind classifies an event.
type Kind string

const (
	// KindStage marks a pipeline state transition. Stage holds the new state.
	KindStage Kind = "stage"
	// KindVisit is emitted for every entry discovery looks at.
	KindVisit Kind = "visit"
	// KindMatch is emitted for every file selected for compilation.
	KindMatch Kind = "match"
	// KindSkip is emitted for entries discovery does not select or descend into.
	KindSkip Kind = "skip"
	// KindWarning reports a condition that does not fail the run.
	KindWarning Kind = "warning"
	// KindUnit is emitted for each module unit the aggregator produces.
	KindUnit Kind = "unit"
	// KindCollision reports two generated files that map to the same module name.
	KindCollision Kind = "collision"
)

// Event is a single notification. Fields that do not apply to a Kind are empty.
type Event struct {
	RunID  string
	Kind   Kind
	Stage  string
	Path   string
	Name   string
	Reason string
	Err    error
}

// Observer receives events synchronously on the emitting goroutine.
type Observer func(Event)

// Emit delivers e when the observer is set.
func (o Observer) Emit(e Event) {
	if o != nil {
		o(e)
	}
}

// Multi fans an event out to every non-nil observer in order.
func Multi(observers ...Observer) Observer {
	return func(e Event) {
		for _, o := range observers {
			o.Emit(e)
		}
	}
}

// Recorder collects events in memory.
type Recorder struct {
	Events []Event
}

// Observe appends e.
func (r *Recorder) Observe(e Event) {
	r.Events = append(r.Events, e)
}

// OfKind returns the recorded events with the given kind, in order.
func (r *Recorder) OfKind(kind Kind) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
