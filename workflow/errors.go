package workflow

// Stage-level failures carry their stage so the coordinator can stop the run
// with a clear reason instead of sending a partial or malformed alert.
// Per-record resolution gaps are data (SourceUnresolved), not errors.

type SourceReadError struct {
	Err error
}

func (e *SourceReadError) Error() string {
	return "backlog source read failed: " + e.Err.Error()
}

func (e *SourceReadError) Unwrap() error { return e.Err }

type ReportWriteError struct {
	Err error
}

func (e *ReportWriteError) Error() string {
	return "report generation failed: " + e.Err.Error()
}

func (e *ReportWriteError) Unwrap() error { return e.Err }

type DispatchError struct {
	Err error
}

func (e *DispatchError) Error() string {
	return "notification dispatch failed: " + e.Err.Error()
}

func (e *DispatchError) Unwrap() error { return e.Err }
