package exitcode

import "testing"

func TestCodesDistinct(t *testing.T) {
	codes := map[string]int{
		"UsageError":      UsageError,
		"ValidationError": ValidationError,
		"DBConnError":     DBConnError,
		"ReplaceError":    ReplaceError,
		"LoadError":       LoadError,
		"AuditError":      AuditError,
		"MigrateError":    MigrateError,
	}
	seen := make(map[int]string)
	for name, code := range codes {
		if code == Success {
			t.Errorf("%s shares the success code", name)
		}
		if other, ok := seen[code]; ok {
			t.Errorf("%s and %s share exit code %d", name, other, code)
		}
		seen[code] = name
	}
}
