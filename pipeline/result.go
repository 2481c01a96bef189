package pipeline

import "github.com/hscells/themeval/output"

// ResultType is the type of result being returned through a pipeline channel.
type ResultType uint8

const (
	// Aligned indicates every prediction was matched to a reference document.
	Aligned ResultType = iota
	// RunResult carries the report of one run.
	RunResult
	// Error indicates an error was raised.
	Error
	// Done indicates the pipeline has completed.
	Done
)

// Result is the output of a pipeline.
type Result struct {
	Type      ResultType
	Documents int
	Run       output.RunReport
	Error     error
}
