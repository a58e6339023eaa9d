package result

// Sink names used in outcomes.
const (
	SinkJSON    = "json"
	SinkInflux  = "influxdb"
	SinkArchive = "archive"
)

// Outcome is the best-effort result of a single sink write. Sinks never abort
// the run; the caller aggregates outcomes and reports failures.
type Outcome struct {
	Sink    string `json:"sink"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Success returns a passing outcome for sink.
func Success(sink string) Outcome {
	return Outcome{Sink: sink, OK: true}
}

// Failure returns a failing outcome carrying the error text.
func Failure(sink string, err error) Outcome {
	return Outcome{Sink: sink, OK: false, Message: err.Error()}
}

// Skipped returns a passing outcome noting the sink was not attempted.
func Skipped(sink string) Outcome {
	return Outcome{Sink: sink, OK: true, Message: "skipped"}
}
