package datarecording

import (
	"os"
	"strings"
	"time"
)

// RunInfo is one property of a recorded run.
type RunInfo struct {
	Property string
	Value    string
}

// RunInfoTable is the table that a RunRecorder writes into.
const RunInfoTable = "run_info"

const timeLayout = "2006-01-02 15:04:05.000000000"

// A RunRecorder records how and when a program was run.
type RunRecorder struct {
	recorder DataRecorder
	entries  []RunInfo
}

// NewRunRecorder creates the run info table in the recorder.
func NewRunRecorder(recorder DataRecorder) *RunRecorder {
	recorder.CreateTable(RunInfoTable, RunInfo{})

	return &RunRecorder{recorder: recorder}
}

// Start notes the start time and the command line of the current process.
func (e *RunRecorder) Start() {
	e.Note("Start Time", time.Now().Format(timeLayout))
	e.Note("Command", strings.Join(os.Args, " "))

	if cwd, err := os.Getwd(); err == nil {
		e.Note("Working Directory", cwd)
	}
}

// Note adds a property to the run info.
func (e *RunRecorder) Note(property, value string) {
	e.entries = append(e.entries, RunInfo{property, value})
}

// End writes the collected properties along with the end time.
func (e *RunRecorder) End() {
	e.Note("End Time", time.Now().Format(timeLayout))

	for _, entry := range e.entries {
		e.recorder.InsertData(RunInfoTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
