package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/gloss-dev/glossbridge/domain/entities"
)

var (
	// ErrNoSpace is returned when the safe zone cannot fit a reservation
	// without overlapping a live region.
	ErrNoSpace = stdErrors.New("arena: no space in safe zone")

	// ErrTooLarge is returned when a reservation exceeds the configured
	// fraction of total capacity. Grow capacity and retry.
	ErrTooLarge = stdErrors.New("arena: reservation exceeds capacity fraction")

	// ErrNoExport is returned when a required guest export is missing.
	ErrNoExport = stdErrors.New("guest: export not found")

	// ErrClosed is returned when a module is used after Close.
	ErrClosed = stdErrors.New("guest: module closed")
)

// CapacityError reports that the runtime refused to grow linear memory.
type CapacityError struct {
	Required       uint64 // Bytes requested
	Capacity       uint64 // Capacity at the time of the request
	PagesAttempted uint64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("memory growth refused: required %d bytes, capacity %d bytes, attempted %d pages",
		e.Required, e.Capacity, e.PagesAttempted)
}

// ToErrorDetail implements DetailedError.
func (e *CapacityError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "capacity", Code: "grow_refused"}
}

// BoundsError reports a read or write that would leave the permitted range.
type BoundsError struct {
	Op     string // "read", "write" or "reserve"
	Offset uint64
	Size   uint64
	Limit  uint64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("%s out of bounds: [%d, %d) exceeds %d", e.Op, e.Offset, e.Offset+e.Size, e.Limit)
}

// ToErrorDetail implements DetailedError.
func (e *BoundsError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "bounds", Code: e.Op}
}

// DispatchKind categorizes callback dispatch failures.
type DispatchKind string

const (
	DispatchUnknownID   DispatchKind = "unknown_id"
	DispatchNilResult   DispatchKind = "nil_result"
	DispatchNullHandle  DispatchKind = "null_handle"
	DispatchPanic       DispatchKind = "panic"
	DispatchInvalidArgs DispatchKind = "invalid_args"
)

// DispatchError reports a failed module->host callback.
type DispatchError struct {
	Err  error
	Kind DispatchKind
	ID   uint32
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("callback %d: %s: %v", e.ID, e.Kind, e.Err)
	}
	return fmt.Sprintf("callback %d: %s", e.ID, e.Kind)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *DispatchError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{
		Message:    e.Error(),
		Type:       "dispatch",
		Code:       string(e.Kind),
		IsNotFound: e.Kind == DispatchUnknownID,
	}
}

// MarshalError reports a failed encode or decode.
type MarshalError struct {
	Err      error
	Op       string // "write_string", "write_string_array", "read_result", ...
	Strategy string // "direct", "chunked" or "" when not applicable
	Index    int    // failing array element, -1 when not applicable
}

func (e *MarshalError) Error() string {
	msg := "marshal " + e.Op
	if e.Strategy != "" {
		msg += " (" + e.Strategy + ")"
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(" at element %d", e.Index)
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *MarshalError) ToErrorDetail() *entities.ErrorDetail {
	return &entities.ErrorDetail{Message: e.Error(), Type: "marshal", Code: e.Op, Wrapped: ToErrorDetail(e.Err)}
}
