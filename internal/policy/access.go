package policy

import "github.com/ForTeamEffect/kap-front/cardex/models"

type AccessState string

const (
	AccessFull           AccessState = "FULL_ACCESS"
	AccessNeedsTier      AccessState = "NEEDS_TIER"
	AccessNeedsAddress   AccessState = "NEEDS_ADDRESS"
	AccessAddressPending AccessState = "ADDRESS_PENDING"
)

// Access decides whether card features are reachable for the person.
// Rule order (first match wins):
//  1. Tier verification with the identity document
//  2. A billing address on file
//  3. The first address approved and active
func Access(person models.Person) AccessState {
	if person.TierLevel <= 0 || !person.HasRequiredDocument {
		return AccessNeedsTier
	}
	if len(person.Addresses) == 0 {
		return AccessNeedsAddress
	}
	if !person.Addresses[0].Verified() {
		return AccessAddressPending
	}
	return AccessFull
}

// RequireAccess returns an *AccessDeniedError unless the person has full access.
func RequireAccess(person models.Person) error {
	if state := Access(person); state != AccessFull {
		return &AccessDeniedError{Remediation: state}
	}
	return nil
}

// Flow names the remediation flow the user is routed to.
func (s AccessState) Flow() string {
	switch s {
	case AccessNeedsTier:
		return "tier_verification"
	case AccessNeedsAddress:
		return "add_billing_address"
	case AccessAddressPending:
		return "await_address_moderation"
	}
	return ""
}

func (s AccessState) Message() string {
	switch s {
	case AccessNeedsTier:
		return "You need to complete your tier level verification before using CardEx services."
	case AccessNeedsAddress:
		return "You need to add a verified billing address to use CardEx services."
	case AccessAddressPending:
		return "Your billing address is awaiting moderation. Please check back later."
	}
	return ""
}
