package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeNameTaken     = "name_taken"
	ErrCodeInvalidName   = "invalid_name"
	ErrCodeRoomLimit     = "room_limit"
	ErrCodeNoSuchRoom    = "no_such_room"
	ErrCodeRoomFull      = "room_full"
	ErrCodeUnknownClient = "unknown_client"
)

var (
	ErrNameTaken     = errors.New("nickname in use")
	ErrInvalidName   = errors.New("invalid nickname")
	ErrRoomLimit     = errors.New("max rooms reached")
	ErrNoSuchRoom    = errors.New("no such room")
	ErrRoomFull      = errors.New("room full")
	ErrUnknownClient = errors.New("unknown client")
)

// CoreError wraps a code and the sentinel it stands for.
type CoreError struct {
	Code string
	Err  error
}

func (e *CoreError) Error() string {
	return e.Err.Error()
}

func (e *CoreError) Unwrap() error {
	return e.Err
}

func coreError(code string, err error) *CoreError {
	return &CoreError{Code: code, Err: err}
}

// Code returns the domain error code carried by err, or "" if there is none.
func Code(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return ""
}
