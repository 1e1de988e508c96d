package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCategory   = "category"
	KeyPath       = "path"
	KeyPattern    = "pattern"
	KeyModified   = "modified"
	KeyDeleted    = "deleted"
	KeyForced     = "forced"
	KeyBuildID    = "build_id"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Category(c string) slog.Attr      { return slog.String(KeyCategory, c) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Pattern(p string) slog.Attr       { return slog.String(KeyPattern, p) }
func Modified(n int) slog.Attr         { return slog.Int(KeyModified, n) }
func Deleted(n int) slog.Attr          { return slog.Int(KeyDeleted, n) }
func Forced(n int) slog.Attr           { return slog.Int(KeyForced, n) }
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
