package order

import (
	"errors"
	"fmt"
)

// ErrUninitializedClient is returned by live-mode operations when no exchange
// client could be constructed (e.g. missing private key).
var ErrUninitializedClient = errors.New("hyperliquid client not initialized")

type ValidationError struct {
	Token   string
	Size    float64
	MinSize float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("order size too small, minimum: %v", e.MinSize)
}

// SubmissionError wraps a failure returned by the exchange while placing an order.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("failed to place order: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}
