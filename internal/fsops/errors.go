package fsops

import "fmt"

// IOError is a failed local filesystem operation (permission denied, a
// vanished directory, a full disk). It unwraps to the underlying error so
// errors.Is(err, fs.ErrNotExist) and friends keep working.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("local %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}
