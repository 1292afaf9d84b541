package hostfuncs

import (
	"fmt"

	"github.com/gloss-dev/glossbridge/domain/entities"
	"github.com/gloss-dev/glossbridge/domain/errors"
)

// NewUnknownIDError reports a dispatch to an id that was never registered.
func NewUnknownIDError(id entities.CallbackID) *errors.DispatchError {
	return &errors.DispatchError{Kind: errors.DispatchUnknownID, ID: uint32(id)}
}

// NewNilResultError reports a callback that returned no object.
func NewNilResultError(id entities.CallbackID) *errors.DispatchError {
	return &errors.DispatchError{Kind: errors.DispatchNilResult, ID: uint32(id)}
}

// NewNullHandleError reports a callback that returned an object without a handle.
func NewNullHandleError(id entities.CallbackID) *errors.DispatchError {
	return &errors.DispatchError{Kind: errors.DispatchNullHandle, ID: uint32(id)}
}

// NewPanicError converts a recovered panic value.
func NewPanicError(id entities.CallbackID, panicValue any) *errors.DispatchError {
	var err error
	switch v := panicValue.(type) {
	case error:
		err = v
	case string:
		err = fmt.Errorf("panic: %s", v)
	default:
		err = fmt.Errorf("panic: %v", v)
	}
	return &errors.DispatchError{Kind: errors.DispatchPanic, ID: uint32(id), Err: err}
}

// NewCallbackError wraps an error returned by the callback itself.
func NewCallbackError(id entities.CallbackID, err error) *errors.DispatchError {
	return &errors.DispatchError{Kind: errors.DispatchInvalidArgs, ID: uint32(id), Err: err}
}
