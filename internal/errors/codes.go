package errors

// Generic error code definitions used as sensible defaults across modules.
const (
	CodeSystemGeneric     = "SYS-000"
	CodeNetworkGeneric    = "NET-000"
	CodeHTTPGeneric       = "HTTP-000"
	CodeConfigGeneric     = "CFG-000"
	CodeUnexpectedGeneric = "UNX-000"
)

// Specific codes raised by the update run.
const (
	CodeDirectoryPrepare = "SYS-001"
	CodeBackupDirectory  = "SYS-002"
	CodeBackupRotate     = "SYS-003"
	CodeHTTPForbidden    = "HTTP-403"
)
