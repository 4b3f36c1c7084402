package freshserve

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           error = errors.New("file not found")
	ErrMethodNotSupported error = errors.New("unsupported method")
)

// BindError the listening socket could not be opened,
// the port is taken or the process lacks permission
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s error: %s", e.Addr, e.Err.Error())
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// IOError a file under the root could not be opened or read
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("read %s error: %s", e.Path, e.Err.Error())
}

func (e *IOError) Unwrap() error {
	return e.Err
}
