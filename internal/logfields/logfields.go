package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyProject    = "project"
	KeyMode       = "mode"
	KeyPath       = "path"
	KeyFile       = "file"
	KeySection    = "section"
	KeyTag        = "tag"
	KeyURL        = "url"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Project(name string) slog.Attr    { return slog.String(KeyProject, name) }
func Mode(m string) slog.Attr          { return slog.String(KeyMode, m) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func File(f string) slog.Attr          { return slog.String(KeyFile, f) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Tag(t string) slog.Attr           { return slog.String(KeyTag, t) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
