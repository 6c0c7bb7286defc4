package errors

import (
	"errors"
	"fmt"
)

// Codes of results that carry no registered error.
const (
	SuccessCode  uint32 = 0
	InternalCode uint32 = 1

	internalABCILog = "internal error"
)

// ABCIInfo returns the code and the log reported for a result. An error
// without a registered root is reported as internal and, unless debug is
// set, its message is hidden.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == InternalCode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// abciCode walks the cause chain down to the first error that declares a
// code.
func abciCode(err error) uint32 {
	for !isNilErr(err) {
		if c, ok := err.(interface{ ABCICode() uint32 }); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return InternalCode
}

// Redact hides every error that is not rooted in a registered one. Panics
// are always hidden. In debug mode the error is returned as is.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == InternalCode {
		return errors.New(internalABCILog)
	}
	return err
}
