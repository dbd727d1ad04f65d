package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrUnknownNetwork is returned for a network name with no profile
	ErrUnknownNetwork = errors.New("unknown network")

	// ErrMissingConfig is returned when a required configuration key is unset or empty
	ErrMissingConfig = errors.New("missing configuration")

	// ErrInvalidConfig is returned when a configuration value cannot be used
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrVariantMismatch is returned when the constructor args don't fit the compiled constructor
	ErrVariantMismatch = errors.New("constructor variant mismatch")

	// ErrVerificationUnsupported is returned when verifying on a network without an explorer
	ErrVerificationUnsupported = errors.New("verification not supported on this network")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")
)

// ErrorKind separates failures that happened before any contract existed from
// failures that happened after one went live.
type ErrorKind string

const (
	// ErrKindConfiguration marks failures detected before any chain interaction
	ErrKindConfiguration ErrorKind = "configuration"
	// ErrKindDeployment marks failures while connecting, sending or mining
	ErrKindDeployment    ErrorKind = "deployment"
	// ErrKindVerification marks explorer failures after the contract is live
	ErrKindVerification  ErrorKind = "verification"
)

// Error tags an underlying error with its kind and the operation that failed
type Error struct {
	Kind ErrorKind
	Op   string
	// TxHash is set when a deployment failed after the transaction was broadcast
	TxHash string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Err != nil {
		if msg != "" {
			msg += ": "
		}
		msg += e.Err.Error()
	}
	if e.TxHash != "" {
		msg += fmt.Sprintf(" (tx %s)", e.TxHash)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError tags err as a configuration error
func NewConfigurationError(op string, err error) error {
	return &Error{Kind: ErrKindConfiguration, Op: op, Err: err}
}

// NewDeploymentError tags err as a deployment error
func NewDeploymentError(op string, err error) error {
	return &Error{Kind: ErrKindDeployment, Op: op, Err: err}
}

// NewVerificationError tags err as a verification error
func NewVerificationError(op string, err error) error {
	return &Error{Kind: ErrKindVerification, Op: op, Err: err}
}

// KindOf returns the kind of the first tagged error in the chain
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// IsConfigurationError reports whether err is tagged as a configuration error
func IsConfigurationError(err error) bool { return isKind(err, ErrKindConfiguration) }

// IsDeploymentError reports whether err is tagged as a deployment error
func IsDeploymentError(err error) bool { return isKind(err, ErrKindDeployment) }

// IsVerificationError reports whether err is tagged as a verification error
func IsVerificationError(err error) bool { return isKind(err, ErrKindVerification) }

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
