package rpc

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

// failure kinds reported by the gateway
const (
	KindHandler Kind = iota
	KindMissingMethod
	KindUnknownMethod
	KindMissingParameter
	KindTimeout
	KindSetup
)

// String returns the name of the failure kind.
func (k Kind) String() string {
	switch k {
	case KindMissingMethod:
		return "MissingMethod"
	case KindUnknownMethod:
		return "UnknownMethod"
	case KindMissingParameter:
		return "MissingParameter"
	case KindTimeout:
		return "Timeout"
	case KindSetup:
		return "SetupError"
	default:
		return "HandlerError"
	}
}

// Error represents a classified gateway failure. The message is reported
// to callers verbatim.
type Error struct {
	Kind Kind
	Msg  string
}

// Error returns the message of the failure.
func (e *Error) Error() string {
	return e.Msg
}

// KindOf returns the kind of the given failure; any failure not raised
// by the gateway itself is a handler failure.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindHandler
}

// errMissingMethod is reported when the operation name is absent.
var errMissingMethod = &Error{Kind: KindMissingMethod, Msg: "Missing method name."}

func errUnknownMethod(name string) error {
	return &Error{Kind: KindUnknownMethod, Msg: fmt.Sprintf("Unknown method %s.", name)}
}

func errMissingParameter(msg string) error {
	return &Error{Kind: KindMissingParameter, Msg: msg}
}

func errTimeout(msg string) error {
	return &Error{Kind: KindTimeout, Msg: msg}
}

func errNotSetUp(address string) error {
	return &Error{Kind: KindSetup, Msg: fmt.Sprintf("Endpoint %s is not set up.", address)}
}

// callFailedMessage is the fixed message reported when an operation does not settle in time.
func callFailedMessage(name string) string {
	return fmt.Sprintf("API call %s failed.", name)
}
