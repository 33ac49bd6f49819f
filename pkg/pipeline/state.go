package pipeline

// State is a pipeline stage. A run moves strictly forward through the states, or to
// Failed from any of them.
type State int

const (
	Idle State = iota
	PatternsCompiled
	FilesDiscovered
	CompilerRun
	OutputAggregated
	Done
	Failed
)

var stateNames = map[State]string{
	Idle:             "idle",
	PatternsCompiled: "patterns_compiled",
	FilesDiscovered:  "files_discovered",
	CompilerRun:      "compiler_run",
	OutputAggregated: "output_aggregated",
	Done:             "done",
	Failed:           "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
