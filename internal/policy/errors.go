package policy

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/cardex/models"
)

// Error kinds returned by the policy. Every failure is one of these, possibly
// wrapped in a typed error carrying the details; match with errors.Is.
var (
	// ErrInvalidTransition: the action is not legal for the current state.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrNotReady: a precondition is temporarily unmet; the caller may retry later.
	ErrNotReady = errors.New("not ready")
	// ErrUnsupported: the action never applies to this card.
	ErrUnsupported = errors.New("unsupported")

	ErrAccessDenied = errors.New("access denied")
	ErrOrderDenied  = errors.New("physical card order denied")

	ErrInvalidAccountName     = errors.New("invalid account name")
	ErrDuplicateAccountName   = errors.New("account name already in use")
	ErrCardholderNameRequired = errors.New("cardholder name is required")
)

// TransitionError reports a card action rejected by the lifecycle policy.
type TransitionError struct {
	Action Action
	Card   models.Card
	Err    error
	Detail string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s on card %s: %v: %s", e.Action, e.Card.ID, e.Err, e.Detail)
}

func (e *TransitionError) Unwrap() error { return e.Err }

// AccessDeniedError is returned while the person is not in FULL_ACCESS.
// Remediation names the state the caller has to route the user out of.
type AccessDeniedError struct {
	Remediation AccessState
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied: %s (%s)", e.Remediation, e.Remediation.Flow())
}

func (e *AccessDeniedError) Is(target error) bool { return target == ErrAccessDenied }

// OrderDeniedError is returned when a physical card order is not admitted.
// Balance and Price are set for DenialInsufficientFunds only.
type OrderDeniedError struct {
	Reason  DenialReason
	Balance decimal.Decimal
	Price   decimal.Decimal
}

func (e *OrderDeniedError) Error() string {
	return fmt.Sprintf("physical card order denied: %s", e.Reason)
}

func (e *OrderDeniedError) Is(target error) bool { return target == ErrOrderDenied }

// Retryable reports whether the same call may succeed later without any
// action from the user.
func Retryable(err error) bool {
	return errors.Is(err, ErrNotReady)
}

func deny(a Action, c models.Card, kind error, detail string) error {
	return &TransitionError{Action: a, Card: c, Err: kind, Detail: detail}
}
