package reasoncodes

import "errors"

// CodedError carries a ReasonCode so callers can branch on the kind of a
// failure instead of inspecting human-readable messages.
type CodedError struct {
	Code  ReasonCode
	Msg   string
	Cause error
}

func New(code ReasonCode, msg string) *CodedError {
	return &CodedError{Code: code, Msg: msg}
}

func Wrap(code ReasonCode, msg string, cause error) *CodedError {
	return &CodedError{Code: code, Msg: msg, Cause: cause}
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return string(e.Code) + ": " + e.Msg + ": " + e.Cause.Error()
	}
	return string(e.Code) + ": " + e.Msg
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// CodeOf extracts the ReasonCode from an error chain, or "" when the chain
// holds no CodedError.
func CodeOf(err error) ReasonCode {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}

func HasCode(err error, code ReasonCode) bool {
	return CodeOf(err) == code
}
