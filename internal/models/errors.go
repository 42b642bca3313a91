package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	KindInputAccess    ErrorKind = "InputAccessError"
	KindDataFormat     ErrorKind = "DataFormatError"
	KindParseAmbiguity ErrorKind = "ParseAmbiguityError"
	KindSerialization  ErrorKind = "SerializationError"
)

// Sentinels matched by errors.Is against a StageError of the same kind.
var (
	ErrInputAccess    = errors.New("input not accessible")
	ErrDataFormat     = errors.New("unexpected data format")
	ErrParseAmbiguity = errors.New("ambiguous filing text")
	ErrSerialization  = errors.New("output not writable")
)

var kindSentinels = map[ErrorKind]error{
	KindInputAccess:    ErrInputAccess,
	KindDataFormat:     ErrDataFormat,
	KindParseAmbiguity: ErrParseAmbiguity,
	KindSerialization:  ErrSerialization,
}

// Stage names a step of the generation pipeline.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageParse     Stage = "parse"
	StageNormalize Stage = "normalize"
	StageEmit      Stage = "emit"
)

// StageError is returned by every pipeline stage that fails.
type StageError struct {
	Stage Stage
	Kind  ErrorKind
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *StageError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindError tags an error with a kind without a stage; the pipeline adds the
// stage when it surfaces the failure.
type KindError struct {
	Kind ErrorKind
	Err  error
}

func (e *KindError) Error() string {
	return e.Err.Error()
}

func (e *KindError) Unwrap() error {
	return e.Err
}

func (e *KindError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// NewKindError wraps err with kind.
func NewKindError(kind ErrorKind, format string, args ...any) error {
	return &KindError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind carried by err, or fallback when none is present.
func KindOf(err error, fallback ErrorKind) ErrorKind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return fallback
}
