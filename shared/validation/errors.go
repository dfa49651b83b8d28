package validation

import "errors"

// ErrTooManyFiles is returned when a batch would exceed the attachment count limit
var ErrTooManyFiles = errors.New("too many files")

// ErrFileTooLarge is returned when a single file exceeds the per-file limit
var ErrFileTooLarge = errors.New("file too large")

// ErrTotalTooLarge is returned when the aggregate attachment size would exceed the limit
var ErrTotalTooLarge = errors.New("total attachment size too large")

// ErrIndexOutOfRange is returned when removing an attachment that does not exist
var ErrIndexOutOfRange = errors.New("attachment index out of range")
