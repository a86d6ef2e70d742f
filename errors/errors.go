package errors

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrNoAccountSelected = errors.New("no wallet account selected")
	ErrNoSignerAvailable = errors.New("no signer available for the selected account")

	// Transaction errors
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPriceUnavailable    = errors.New("mint price is unavailable")
	ErrEstimationFailed    = errors.New("gas estimation failed")
	ErrSigningFailed       = errors.New("transaction signing failed")
	ErrSubmissionFailed    = errors.New("transaction submission failed")

	// Bridge errors
	ErrMalformedBridgeMessage = errors.New("malformed bridge message")
	ErrUnknownAction          = errors.New("unknown bridge action")
	ErrUnknownRace            = errors.New("unknown cybor race")

	// Program errors
	ErrProgramIDNotSet = errors.New("program id is not set")
)

// RemoteCallError is returned by program queries when the node replied with a non-success code. Message is the
// text the program reported in the reply payload.
type RemoteCallError struct {
	Service string
	Method  string
	Reason  string
	Message string
}

func (e *RemoteCallError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s/%s: %s", e.Service, e.Method, e.Message)
	}
	return fmt.Sprintf("%s/%s: %s (%s)", e.Service, e.Method, e.Message, e.Reason)
}

// AsRemoteCallError unwraps err looking for a RemoteCallError.
func AsRemoteCallError(err error) (*RemoteCallError, bool) {
	var rce *RemoteCallError
	if errors.As(err, &rce) {
		return rce, true
	}
	return nil, false
}
