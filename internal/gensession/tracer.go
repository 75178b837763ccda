package gensession

import "time"

// Tracer records one generate call's lifecycle to disk: Start writes the
// initial metadata (input, start time), Finish records the result.
type Tracer struct {
	id   string
	meta Metadata
}

// Start begins tracing a generate call over input, creating its session
// directory and writing initial metadata. Errors are non-fatal to the
// caller — a trace that fails to initialize simply isn't recorded.
func Start(input string) *Tracer {
	id := NewSessionID()
	t := &Tracer{id: id, meta: Metadata{SessionID: id, Input: input, StartTime: time.Now()}}
	if err := CreateSessionDirectory(id); err == nil {
		_ = WriteMetadata(id, &t.meta)
	}
	return t
}

// SessionID returns the tracer's session identifier.
func (t *Tracer) SessionID() string { return t.id }

// Finish records the call's outcome and persists final metadata.
func (t *Tracer) Finish(output string, iterations int, err error) {
	end := time.Now()
	dur := end.Sub(t.meta.StartTime)
	t.meta.Output = output
	t.meta.Iterations = iterations
	t.meta.EndTime = &end
	t.meta.Duration = &dur
	if err != nil {
		t.meta.Error = err.Error()
	}
	_ = WriteMetadata(t.id, &t.meta)
}
