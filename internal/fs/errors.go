package fs

import (
	"errors"
	iofs "io/fs"
	"syscall"
)

var errNotDirectory = errors.New("not a directory")

// ErrorKind classifies filesystem failures for callers that react to them.
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindNotFound
	KindPermissionDenied
	KindAlreadyExists
	// KindCrossDevice triggers the copy fallback of a rename; never shown to users.
	KindCrossDevice
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermissionDenied:
		return "permission denied"
	case KindAlreadyExists:
		return "already exists"
	case KindCrossDevice:
		return "cross-device link"
	default:
		return "i/o error"
	}
}

// Error is a classified filesystem error.
type Error struct {
	Kind ErrorKind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Classify wraps err into an *Error. A nil err stays nil and an *Error is
// returned unchanged.
func Classify(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		return err
	}
	return &Error{Kind: KindOf(err), Op: op, Path: path, Err: err}
}

// KindOf maps an arbitrary error onto an ErrorKind.
func KindOf(err error) ErrorKind {
	var classified *Error
	switch {
	case err == nil:
		return KindOther
	case errors.As(err, &classified):
		return classified.Kind
	case errors.Is(err, syscall.EXDEV):
		return KindCrossDevice
	case errors.Is(err, iofs.ErrNotExist):
		return KindNotFound
	case errors.Is(err, iofs.ErrPermission):
		return KindPermissionDenied
	case errors.Is(err, iofs.ErrExist):
		return KindAlreadyExists
	default:
		return KindOther
	}
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}
