package core

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("not found")

// ValidationError reports caller-supplied input that violates a precondition.
// It is always raised before any network call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if len(e.Field) == 0 {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// NetworkError reports a read that failed because the remote endpoint was
// unreachable, malformed, or explicitly reported failure.
type NetworkError struct {
	Endpoint string
	Reason   string
	Err      error
}

func NewNetworkError(endpoint, reason string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Reason: reason, Err: err}
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("network: %s: %s: %v", e.Endpoint, e.Reason, e.Err)
	}
	return fmt.Sprintf("network: %s: %s", e.Endpoint, e.Reason)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// TransactionError reports a broadcast or build failure, including the case
// where the endpoint reports success but returns no hash.
type TransactionError struct {
	Hash   string
	Reason string
	Err    error
}

func NewTransactionError(hash, reason string, err error) *TransactionError {
	return &TransactionError{Hash: hash, Reason: reason, Err: err}
}

func (e *TransactionError) Error() string {
	if len(e.Hash) == 0 {
		return fmt.Sprintf("transaction: %s", e.Reason)
	}
	return fmt.Sprintf("transaction %s: %s", e.Hash, e.Reason)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}

// ParseError reports a mined transaction whose receipts do not match the
// shape a parser expects. Receipt carries the offending record when present.
type ParseError struct {
	Op      string
	Reason  string
	Receipt Receipt
}

func NewParseError(op, reason string, receipt Receipt) *ParseError {
	return &ParseError{Op: op, Reason: reason, Receipt: receipt}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Op, e.Reason)
}

type UnknownNetworkError struct {
	Name string
}

func (e *UnknownNetworkError) Error() string {
	return fmt.Sprintf("unknown network: %s", e.Name)
}
