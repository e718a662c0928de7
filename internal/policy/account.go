package policy

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/cardex/models"
)

const MaxAccountNameLength = 64

// ValidateAccountName checks a new account name against the person's
// accounts. except is the current name of the account being renamed, empty
// on creation.
func ValidateAccountName(person models.Person, name, except string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: account name is required", ErrInvalidAccountName)
	}
	if utf8.RuneCountInString(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: account name must be at most %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}
	for _, a := range person.Accounts {
		if except != "" && strings.EqualFold(a.Name, strings.TrimSpace(except)) {
			continue
		}
		if strings.EqualFold(a.Name, name) {
			return fmt.Errorf("%w: %q", ErrDuplicateAccountName, name)
		}
	}
	return nil
}

func CanCreateAccount(person models.Person, name string) error {
	if err := RequireAccess(person); err != nil {
		return err
	}
	return ValidateAccountName(person, name, "")
}

func CanRenameAccount(person models.Person, account models.Account, newName string) error {
	if err := RequireAccess(person); err != nil {
		return err
	}
	return ValidateAccountName(person, newName, account.Name)
}

// CanReplaceVirtual decides whether a new virtual card may be issued for the
// account. Replacing never removes the previous card.
func CanReplaceVirtual(person models.Person, cardholderName string) error {
	if err := RequireAccess(person); err != nil {
		return err
	}
	if strings.TrimSpace(cardholderName) == "" {
		return ErrCardholderNameRequired
	}
	return nil
}

// AccountActions returns the account-level actions currently permitted.
func AccountActions(account models.Account, person models.Person, price decimal.Decimal) Actions {
	if RequireAccess(person) != nil {
		return Actions{}
	}
	var out Actions
	if CanOrderPhysical(account, person, price) == nil {
		out = append(out, ActionOrderPhysical)
	}
	return append(out, ActionReplaceVirtual)
}

// OrderLabel is the caption of the physical card order entry point.
func OrderLabel(account models.Account) string {
	switch {
	case account.PhysicalOrderPending:
		return "Physical card order is in progress"
	case len(account.Cards) > 1:
		return "Replace Physical Card"
	default:
		return "Order Physical Card"
	}
}
