// Package policy holds the CardEx decision rules: which lifecycle actions a
// card allows, whether a person may reach card features at all, and whether an
// account may order a physical card.
//
// Everything here is pure: inputs are value snapshots, nothing is logged,
// retried or stored, and every failure is returned to the caller.
package policy

import "github.com/ForTeamEffect/kap-front/cardex/models"

// AvailableActions returns the card-level actions currently permitted for the
// card, in canonical order. VIEW_SENSITIVE_DATA is always included.
func AvailableActions(card models.Card) Actions {
	out := make(Actions, 0, len(CardActions))
	for _, a := range CardActions {
		if permit(card, a) == nil {
			out = append(out, a)
		}
	}
	return out
}

// Apply returns the card state after the action. The input is not modified.
// VIEW_SENSITIVE_DATA and CHANGE_PIN leave every modeled field unchanged.
func Apply(card models.Card, action Action) (models.Card, error) {
	if err := permit(card, action); err != nil {
		return models.Card{}, err
	}

	next := card
	switch action {
	case ActionBlock:
		next.BlockState = models.BlockStateBlocked
		next.BlockReason = models.BlockReasonOwnerRequest
	case ActionUnblock, ActionActivate:
		// INITIAL_BLOCK is cleared for good: nothing sets it again.
		next.BlockState = models.BlockStateActive
		next.BlockReason = models.BlockReasonNone
	}
	return next, nil
}

// permit is the single decision table behind AvailableActions and Apply.
// A nil result means the action is legal for the card.
func permit(card models.Card, action Action) error {
	if !action.IsCardLevel() {
		if _, err := ParseAction(string(action)); err == nil {
			return deny(action, card, ErrUnsupported, "account-level action")
		}
		return deny(action, card, ErrUnsupported, "unknown action")
	}
	c := normalize(card)

	switch action {
	case ActionViewSensitiveData:
		return nil

	case ActionBlock:
		if c.IsBlocked() {
			return deny(action, card, ErrInvalidTransition, "card is already blocked")
		}
		if !c.IsEmbossed() {
			return deny(action, card, ErrNotReady, "card is being manufactured")
		}
		return nil

	case ActionUnblock:
		if !c.IsBlocked() {
			return deny(action, card, ErrInvalidTransition, "card is not blocked")
		}
		switch c.BlockReason {
		case models.BlockReasonOwnerRequest:
			return nil
		case models.BlockReasonInitialBlock:
			return deny(action, card, ErrInvalidTransition, "card awaits first activation")
		default:
			return deny(action, card, ErrInvalidTransition, "card was not blocked by its owner")
		}

	case ActionActivate:
		if !c.IsPhysical() || !c.IsBlocked() || c.BlockReason != models.BlockReasonInitialBlock {
			return deny(action, card, ErrInvalidTransition, "card is not awaiting activation")
		}
		if !c.IsEmbossed() {
			return deny(action, card, ErrNotReady, "card is being manufactured")
		}
		return nil

	case ActionChangePIN:
		if !c.IsPhysical() {
			return deny(action, card, ErrUnsupported, "virtual cards have no PIN")
		}
		if !c.IsEmbossed() {
			return deny(action, card, ErrUnsupported, "card is being manufactured")
		}
		if c.IsBlocked() && c.BlockReason == models.BlockReasonInitialBlock {
			return deny(action, card, ErrInvalidTransition, "card must be activated first")
		}
		return nil
	}

	return deny(action, card, ErrUnsupported, "unknown action")
}

// normalize folds fields that carry no meaning for the given state: virtual
// cards are always embossed and an active card has no block reason.
func normalize(c models.Card) models.Card {
	if c.Class == models.CardClassVirtual {
		c.Manufacturing = models.ManufacturingEmbossed
	}
	if c.BlockState != models.BlockStateBlocked {
		c.BlockState = models.BlockStateActive
		c.BlockReason = models.BlockReasonNone
	}
	return c
}
