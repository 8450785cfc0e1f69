package lfp

import (
	"errors"
	"fmt"
)

var(
	ErrEmptyStack       = errors.New("stack has no members")
	ErrUnsupportedFile  = errors.New("unsupported light-field picture")
)

// A FileLoadError is returned when a container can't be opened or parsed.
type FileLoadError struct {
	Path string
	Err  error
}

func (e *FileLoadError)Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *FileLoadError)Unwrap() error { return e.Err }

// An UnsupportedFileError is returned when a picture has none of the refocus,
// parallax or frame groups, so there is nothing to display.
type UnsupportedFileError struct {
	Title string
}

func (e *UnsupportedFileError)Error() string {
	if e.Title == "" {
		return ErrUnsupportedFile.Error()
	}
	return fmt.Sprintf("%s: %v", e.Title, ErrUnsupportedFile)
}
func (e *UnsupportedFileError)Is(target error) bool { return target == ErrUnsupportedFile }

// An EmptyStackError is returned by a nearest-member query on a stack with no
// members.
type EmptyStackError struct {
	Group Group
}

func (e *EmptyStackError)Error() string           { return fmt.Sprintf("%s: %v", e.Group, ErrEmptyStack) }
func (e *EmptyStackError)Is(target error) bool    { return target == ErrEmptyStack }

// A DecodeError is scoped to a single image.
type DecodeError struct {
	Key ImageKey
	Err error
}

func (e *DecodeError)Error() string { return fmt.Sprintf("decode %s: %v", e.Key, e.Err) }
func (e *DecodeError)Unwrap() error { return e.Err }
