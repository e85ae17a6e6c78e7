package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldError     = "error"
	FieldBackend   = "backend"
	FieldPath      = "path"
	FieldRow       = "row"
	FieldCount     = "count"
	FieldSkipped   = "skipped"
	FieldMonth     = "month"
	FieldDate      = "date"
	FieldCategory  = "category"
	FieldAmount    = "amount"
	FieldBudget    = "budget"
	FieldSpent     = "spent"
	FieldStrict    = "strict"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentShell   = "shell"
	ComponentSession = "session"
	ComponentStorage = "storage"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad     = "load"
	OpSave     = "save"
	OpAppend   = "append"
	OpTrack    = "track"
	OpBudget   = "budget"
	OpMigrate  = "migrate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
