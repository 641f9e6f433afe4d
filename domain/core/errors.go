package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Extraction errors
	ErrNoValidTemperatureData = errors.New("no rows with a valid temperature value")
	ErrNoValidSamples         = errors.New("no sample column passed the coverage gate")

	// Archive errors
	ErrArchiveDecode   = errors.New("archive could not be decoded")
	ErrNoMeltData      = errors.New("melt-curve result stream not found in archive")
	ErrNoSamplesParsed = errors.New("melt-curve stream contained no samples")
	ErrLengthMismatch  = errors.New("sample vector length differs from temperature axis")

	// Configuration errors
	ErrInvalidSettings = errors.New("invalid analysis settings")
)

// Error constructors with context
func NewArchiveDecodeError(cause error) error {
	return fmt.Errorf("%w: %v", ErrArchiveDecode, cause)
}

func NewLengthMismatchError(sample string, got, want int) error {
	return fmt.Errorf("%w: sample %q has %d points, axis has %d", ErrLengthMismatch, sample, got, want)
}

func NewSettingsError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidSettings, field, reason)
}

// Error checking helpers
func IsExtractionError(err error) bool {
	return errors.Is(err, ErrNoValidTemperatureData) ||
		errors.Is(err, ErrNoValidSamples)
}

func IsArchiveError(err error) bool {
	return errors.Is(err, ErrArchiveDecode) ||
		errors.Is(err, ErrNoMeltData) ||
		errors.Is(err, ErrNoSamplesParsed) ||
		errors.Is(err, ErrLengthMismatch)
}

func IsSettingsError(err error) bool {
	return errors.Is(err, ErrInvalidSettings)
}
