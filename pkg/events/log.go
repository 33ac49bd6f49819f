package events

import (
	log "github.com/cloudposse/capnp-import/pkg/logger"
)

// LogObserver forwards events to the default logger.
// Per-entry traffic goes to Trace, stage transitions and units to Debug,
// and warnings and collisions to Warn.
func LogObserver() Observer {
	return func(e Event) {
		keyvals := fields(e)
		switch e.Kind {
		case KindStage:
			log.Debug("Pipeline stage", keyvals...)
		case KindVisit:
			log.Trace("Visiting", keyvals...)
		case KindSkip:
			log.Trace("Skipping", keyvals...)
		case KindMatch:
			log.Debug("Selected schema file", keyvals...)
		case KindUnit:
			log.Debug("Wrapped generated file", keyvals...)
		case KindCollision:
			log.Warn("Duplicate module name in generated output", keyvals...)
		case KindWarning:
			log.Warn(e.Reason, keyvals...)
		default:
			log.Debug("Event", keyvals...)
		}
	}
}

func fields(e Event) []any {
	keyvals := make([]any, 0, 12)
	if e.RunID != "" {
		keyvals = append(keyvals, "run", e.RunID)
	}
	if e.Stage != "" {
		keyvals = append(keyvals, "stage", e.Stage)
	}
	if e.Path != "" {
		keyvals = append(keyvals, "path", e.Path)
	}
	if e.Name != "" {
		keyvals = append(keyvals, "name", e.Name)
	}
	if e.Reason != "" && e.Kind != KindWarning {
		keyvals = append(keyvals, "reason", e.Reason)
	}
	if e.Err != nil {
		keyvals = append(keyvals, "error", e.Err)
	}
	return keyvals
}
