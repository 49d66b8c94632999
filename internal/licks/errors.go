package licks

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is wrapped by every validation error so callers can classify
// them with errors.Is without knowing the concrete type.
var ErrInvalidInput = errors.New("invalid lick data")

// ErrInvalidParams is wrapped by Params.Validate failures
var ErrInvalidParams = errors.New("invalid analysis parameters")

// OrderingError reports onsets that are not strictly increasing
type OrderingError struct {
	Index    int
	Previous float64
	Value    float64
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("onset times are not strictly increasing: onset %d (%.3fs) is not greater than onset %d (%.3fs)",
		e.Index, e.Value, e.Index-1, e.Previous)
}

func (e *OrderingError) Unwrap() error { return ErrInvalidInput }

// RangeError reports a value or index outside its valid domain
type RangeError struct {
	Index  int
	Value  float64
	Reason string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value out of range at index %d (%v): %s", e.Index, e.Value, e.Reason)
}

func (e *RangeError) Unwrap() error { return ErrInvalidInput }

// LengthMismatchError reports onset and offset sequences of different lengths,
// or offsets requested when none were supplied.
type LengthMismatchError struct {
	Onsets  int
	Offsets int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("onset/offset length mismatch: %d onsets, %d offsets", e.Onsets, e.Offsets)
}

func (e *LengthMismatchError) Unwrap() error { return ErrInvalidInput }

// PairingError reports an offset that precedes its own onset
type PairingError struct {
	Index  int
	Onset  float64
	Offset float64
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("lick %d: offset (%.3fs) precedes onset (%.3fs)", e.Index, e.Offset, e.Onset)
}

func (e *PairingError) Unwrap() error { return ErrInvalidInput }

// OverlapError reports an offset that extends past the next lick's onset
type OverlapError struct {
	Index     int
	Offset    float64
	NextOnset float64
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("lick %d: offset (%.3fs) extends past next onset (%.3fs)", e.Index, e.Offset, e.NextOnset)
}

func (e *OverlapError) Unwrap() error { return ErrInvalidInput }

// ErrorKind returns a short machine-readable name for a validation error and
// the index it refers to (-1 when no index applies).
func ErrorKind(err error) (string, int) {
	var (
		ordering *OrderingError
		rng      *RangeError
		length   *LengthMismatchError
		pairing  *PairingError
		overlap  *OverlapError
	)
	switch {
	case errors.As(err, &ordering):
		return "ordering", ordering.Index
	case errors.As(err, &rng):
		return "range", rng.Index
	case errors.As(err, &length):
		return "length_mismatch", -1
	case errors.As(err, &pairing):
		return "pairing", pairing.Index
	case errors.As(err, &overlap):
		return "overlap", overlap.Index
	case errors.Is(err, ErrInvalidParams):
		return "params", -1
	}
	return "", -1
}
