package eventlog

import (
	"strconv"
	"strings"

	"password-study/internal/domain"
)

// Columns is the field order of every log line.
var Columns = []string{"time", "domain", "user", "scheme", "mode", "event", "attempt"}

// FormatLine renders one entry as a CSV line terminated by "\n". The time
// column holds milliseconds since the Unix epoch.
func FormatLine(e domain.AttemptOutcome) string {
	fields := []string{
		strconv.FormatInt(e.Time.UnixMilli(), 10),
		e.Domain,
		strconv.FormatInt(e.UserID, 10),
		string(e.Scheme),
		string(e.Mode),
		string(e.Event),
		strconv.Itoa(e.Attempt),
	}
	for i, f := range fields {
		fields[i] = escapeField(f)
	}
	return strings.Join(fields, ",") + "\n"
}

// escapeField trims the value, doubles embedded quotes and wraps the field in
// quotes when it holds a quote or a comma. Line breaks alone do not cause
// quoting.
func escapeField(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, `"`, `""`)
	if strings.ContainsAny(v, `",`) {
		return `"` + v + `"`
	}
	return v
}
