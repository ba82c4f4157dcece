package errors

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrTaskNotCompleted  = errors.New("download not completed yet")
	ErrArtifactMissing   = errors.New("file not found")
	ErrInvalidTransition = errors.New("invalid task status transition")
	ErrInvalidRequest    = errors.New("invalid request")

	ErrUnknownSource = errors.New("unknown video source")
	ErrExtraction    = errors.New("extraction failed")
	ErrConversion    = errors.New("conversion failed")
)
