package errors

import (
	"errors"
)

// Pipeline errors. Every stage failure is terminal for the current run.
var (
	ErrNoPatterns          = errors.New("at least one pattern is required")
	ErrPatternSyntax       = errors.New("invalid glob pattern")
	ErrUnknownMatchEngine  = errors.New("unknown match engine")
	ErrDiscovery           = errors.New("file discovery failed")
	ErrCompilerInvocation  = errors.New("schema compiler invocation failed")
	ErrAggregation         = errors.New("failed to aggregate generated output")
	ErrNonTextOutput       = errors.New("generated file is not text")
	ErrInvalidModuleName   = errors.New("invalid module name")
	ErrUnknownTarget       = errors.New("unknown output target")
	ErrCompilerNotFound    = errors.New("schema compiler not found")
	ErrCompilerVersion     = errors.New("schema compiler version does not satisfy constraint")
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrWriteOutput         = errors.New("failed to write aggregated output")
	ErrScratchDir          = errors.New("failed to prepare scratch output directory")
	ErrOutputLocked        = errors.New("output file is locked by another process")
	ErrUnsupportedFormat   = errors.New("unsupported output format")
	ErrCompilerVersionRead = errors.New("failed to read schema compiler version")
	ErrPipelineReused      = errors.New("pipeline has already run")
	ErrKeepGenerated       = errors.New("failed to keep generated files")
)
