package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches internal/middleware session keys)
	FieldUserID   = "user_id"
	FieldUsername = "username"

	// Forum entities
	FieldRoomID    = "room_id"
	FieldMessageID = "message_id"
	FieldTopic     = "topic"

	// Service
	FieldService = "service"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
