package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyFile        = "file"
	KeyPath        = "path"
	KeyBytes       = "bytes"
	KeyBlocks      = "blocks"
	KeyBlockKind   = "block_kind"
	KeyRecognizer  = "recognizer"
	KeyOffset      = "offset"
	KeyFingerprint = "fingerprint"
	KeyFormat      = "format"
	KeyDurationMS  = "duration_ms"
	KeyRequestID   = "request_id"
	KeyMethod      = "method"
	KeyRoute       = "route"
	KeyStatus      = "status"
	KeyRemoteAddr  = "remote_addr"
	KeyUserAgent   = "user_agent"
	KeyAddr        = "addr"
	KeyExtension   = "extension"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func File(name string) slog.Attr       { return slog.String(KeyFile, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Bytes(n int) slog.Attr            { return slog.Int(KeyBytes, n) }
func Blocks(n int) slog.Attr           { return slog.Int(KeyBlocks, n) }
func BlockKind(k string) slog.Attr     { return slog.String(KeyBlockKind, k) }
func Recognizer(name string) slog.Attr { return slog.String(KeyRecognizer, name) }
func Offset(n int) slog.Attr           { return slog.Int(KeyOffset, n) }
func Fingerprint(fp string) slog.Attr  { return slog.String(KeyFingerprint, fp) }
func Format(f string) slog.Attr        { return slog.String(KeyFormat, f) }
func RequestID(id string) slog.Attr    { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr        { return slog.String(KeyMethod, m) }
func Route(r string) slog.Attr         { return slog.String(KeyRoute, r) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr    { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr    { return slog.String(KeyUserAgent, ua) }
func Addr(a string) slog.Attr          { return slog.String(KeyAddr, a) }
func Extension(name string) slog.Attr  { return slog.String(KeyExtension, name) }

// Duration reports d in fractional milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
