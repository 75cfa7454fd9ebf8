package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldClientIP   = "client_ip"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
	FieldRows       = "rows"
	FieldBackend    = "backend"
	FieldEventID    = "event_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentCLI     = "cli"
	ComponentHTTP    = "http"
	ComponentLedger  = "ledger"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpInit     = "init"
	OpAppend   = "append"
	OpQuery    = "query"
	OpSeries   = "series"
	OpMirror   = "mirror"
	OpBackfill = "backfill"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithRange adds the query bounds.
func (f LogFields) WithRange(start, end string) LogFields {
	f[FieldStartDate] = start
	f[FieldEndDate] = end
	return f
}

// WithHTTPRequest adds HTTP request fields
func (f LogFields) WithHTTPRequest(method, path, query string) LogFields {
	f[FieldMethod] = method
	f[FieldPath] = path
	f[FieldQuery] = query
	return f
}

// WithHTTPResponse adds HTTP response fields
func (f LogFields) WithHTTPResponse(statusCode int, durationMs int64) LogFields {
	f[FieldStatusCode] = statusCode
	f[FieldDuration] = durationMs
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
