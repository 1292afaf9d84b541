package entities

import (
	"fmt"
	"log/slog"
)

// ErrorDetail is the structured form of a bridge failure, suitable for
// logging. Type is one of "capacity", "bounds", "marshal", "dispatch",
// "config", "validation" or "internal"; Code narrows it down (the failed
// operation, the dispatch kind, the offending field).
type ErrorDetail struct {
	// Wrapped is the detail of the underlying cause, if any.
	Wrapped *ErrorDetail `json:"wrapped,omitempty"`

	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`

	// IsNotFound marks lookups of ids or exports that do not exist.
	IsNotFound bool `json:"is_not_found,omitempty"`
}

func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != "internal" {
		msg = fmt.Sprintf("%s: %s", e.Type, msg)
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return msg
}

// LogValue renders the detail as a group, innermost cause last.
func (e *ErrorDetail) LogValue() slog.Value {
	if e == nil {
		return slog.Value{}
	}
	attrs := []slog.Attr{
		slog.String("type", e.Type),
		slog.String("message", e.Message),
	}
	if e.Code != "" {
		attrs = append(attrs, slog.String("code", e.Code))
	}
	if e.IsNotFound {
		attrs = append(attrs, slog.Bool("not_found", true))
	}
	if e.Wrapped != nil {
		attrs = append(attrs, slog.Any("cause", e.Wrapped))
	}
	return slog.GroupValue(attrs...)
}
