package tracing

import (
	"context"
	"strings"

	"github.com/sarchlab/diningsim/datarecording"
	"github.com/sarchlab/diningsim/dining"
)

// EventQuery selects trace events. Zero fields match everything.
type EventQuery struct {
	Session int
	Kind    dining.EventKind
}

func (q EventQuery) params() datarecording.QueryParams {
	var (
		conditions []string
		args       []any
	)

	if q.Session > 0 {
		conditions = append(conditions, "Session = ?")
		args = append(args, q.Session)
	}

	if q.Kind != "" {
		conditions = append(conditions, "Kind = ?")
		args = append(args, string(q.Kind))
	}

	return datarecording.QueryParams{
		Where:   strings.Join(conditions, " AND "),
		Args:    args,
		OrderBy: "Session, SequenceID",
	}
}

// TraceReader reads a recording written by a DBTracer.
type TraceReader struct {
	reader datarecording.DataReader
}

// NewTraceReader maps the tables of a recording on the reader.
func NewTraceReader(reader datarecording.DataReader) *TraceReader {
	reader.MapTable(datarecording.RunInfoTable, datarecording.RunInfo{})
	reader.MapTable(SessionTable, SessionEntry{})
	reader.MapTable(EventTable, EventEntry{})
	reader.MapTable(PhilosopherTable, PhilosopherEntry{})

	return &TraceReader{reader: reader}
}

// RunInfo returns the properties noted about the run.
func (r *TraceReader) RunInfo(ctx context.Context) ([]datarecording.RunInfo, error) {
	return datarecording.QueryAs[datarecording.RunInfo](ctx, r.reader,
		datarecording.RunInfoTable, datarecording.QueryParams{})
}

// Sessions returns the closed sessions in order.
func (r *TraceReader) Sessions(ctx context.Context) ([]SessionEntry, error) {
	return datarecording.QueryAs[SessionEntry](ctx, r.reader, SessionTable,
		datarecording.QueryParams{OrderBy: "Session"})
}

// Events returns the selected events in the order they happened.
func (r *TraceReader) Events(
	ctx context.Context,
	q EventQuery,
) ([]EventEntry, error) {
	return datarecording.QueryAs[EventEntry](ctx, r.reader, EventTable,
		q.params())
}

// CountEvents returns the number of selected events.
func (r *TraceReader) CountEvents(ctx context.Context, q EventQuery) (int, error) {
	params := q.params()
	params.Limit = 1

	_, total, err := r.reader.Query(ctx, EventTable, params)

	return total, err
}

// Deaths returns the starvation events of every session.
func (r *TraceReader) Deaths(ctx context.Context) ([]EventEntry, error) {
	return r.Events(ctx, EventQuery{Kind: dining.EventDied})
}

// Samples returns the states of a philosopher over a session.
func (r *TraceReader) Samples(
	ctx context.Context,
	session, philosopherID int,
) ([]PhilosopherEntry, error) {
	return datarecording.QueryAs[PhilosopherEntry](ctx, r.reader,
		PhilosopherTable, datarecording.QueryParams{
			Where:   "Session = ? AND PhilosopherID = ?",
			Args:    []any{session, philosopherID},
			OrderBy: "Time",
		})
}

// Close closes the underlying reader.
func (r *TraceReader) Close() error {
	return r.reader.Close()
}
