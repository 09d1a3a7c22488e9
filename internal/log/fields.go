package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldClientIP  = "client_ip"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldTaskID      = "task_id"
	FieldTaskTitle   = "task_title"
	FieldPriority    = "priority"
	FieldLogID       = "log_id"
	FieldSeconds     = "seconds"
	FieldTxnID       = "txn_id"
	FieldDescription = "description"
	FieldAmount      = "amount"
	FieldCategory    = "category"
	FieldKey         = "key"
	FieldMonth       = "month"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentState   = "state"
	ComponentTimer   = "timer"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCharts  = "charts"
)

// Operations defines standard operation names
const (
	OpAdd      = "add"
	OpToggle   = "toggle"
	OpDelete   = "delete"
	OpUpdate   = "update"
	OpClear    = "clear"
	OpFlush    = "flush"
	OpLoad     = "load"
	OpStart    = "start"
	OpPause    = "pause"
	OpStop     = "stop"
	OpRender   = "render"
	OpExport   = "export"
	OpRollover = "rollover"
)
