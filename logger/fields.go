package logger

// Standard field key constants for structured logging.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldPrincipal = "principal"
	FieldApp       = "app"
	FieldOperation = "operation"
	FieldKey       = "key"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldEmail     = "email"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	log.Info("Session removed", logger.Fields(logger.FieldSessionID, logger.SessionRef(sid)))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// SessionRef shortens a session id for logs. A full sid is a bearer
// credential and never goes to a log sink.
func SessionRef(sid string) string {
	if len(sid) <= 8 {
		return sid
	}
	return sid[:8] + "..."
}
