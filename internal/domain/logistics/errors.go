package logistics

import (
	"errors"
	"fmt"

	"github.com/SupernovaXTS/overmind-logistics/internal/domain/shared"
)

// ErrWildcardWithdraw is matched by errors.Is for every wildcard misuse
var ErrWildcardWithdraw = errors.New("wildcard resource cannot be resolved to a concrete action")

// WildcardWithdrawError reports a wildcard request that would become a
// concrete withdrawal, pickup or input. It is a configuration error.
type WildcardWithdrawError struct {
	*shared.ConfigurationError
	RequestID string
}

func NewWildcardWithdrawError(requestID, reason string) *WildcardWithdrawError {
	return &WildcardWithdrawError{
		ConfigurationError: shared.NewConfigurationError(requestID, fmt.Sprintf("%s: %s", ErrWildcardWithdraw, reason)),
		RequestID:          requestID,
	}
}

func (e *WildcardWithdrawError) Is(target error) bool {
	return target == ErrWildcardWithdraw
}

func (e *WildcardWithdrawError) Unwrap() error {
	return e.ConfigurationError
}

// ImproperRequestError reports an input request against a ground target
type ImproperRequestError struct {
	*shared.ConfigurationError
	RequestID string
}

func NewImproperRequestError(requestID string) *ImproperRequestError {
	return &ImproperRequestError{
		ConfigurationError: shared.NewConfigurationError(requestID, "should not request input for a pile, tombstone or ruin"),
		RequestID:          requestID,
	}
}

func (e *ImproperRequestError) Unwrap() error {
	return e.ConfigurationError
}
