// Package logfields holds the canonical slog keys used across the module.
package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyPost      = "post"
	KeyPath      = "path"
	KeyOld       = "old"
	KeyNew       = "new"
	KeySelector  = "selector"
	KeyAttribute = "attribute"
	KeyChanges   = "changes"
	KeyMode      = "mode"
	KeyStatus    = "status"
	KeyMethod    = "method"
	KeyURL       = "url"
	KeyFile      = "file"
	KeyError     = "error"
)

func Post(p string) slog.Attr      { return slog.String(KeyPost, p) }
func Path(p string) slog.Attr      { return slog.String(KeyPath, p) }
func Old(v string) slog.Attr       { return slog.String(KeyOld, v) }
func New(v string) slog.Attr       { return slog.String(KeyNew, v) }
func Selector(s string) slog.Attr  { return slog.String(KeySelector, s) }
func Attribute(a string) slog.Attr { return slog.String(KeyAttribute, a) }
func Changes(n int) slog.Attr      { return slog.Int(KeyChanges, n) }
func Mode(m string) slog.Attr      { return slog.String(KeyMode, m) }
func Status(code int) slog.Attr    { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr    { return slog.String(KeyMethod, m) }
func URL(u string) slog.Attr       { return slog.String(KeyURL, u) }
func File(f string) slog.Attr      { return slog.String(KeyFile, f) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
