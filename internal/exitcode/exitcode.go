package exitcode

const (
	Success         = 0
	UsageError      = 1
	ValidationError = 2
	DBConnError     = 3
	ReplaceError    = 4
	LoadError       = 5
	AuditError      = 6
	MigrateError    = 7
)
