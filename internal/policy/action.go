package policy

import (
	"fmt"
	"strings"
)

type Action string

const (
	ActionViewSensitiveData Action = "VIEW_SENSITIVE_DATA"
	ActionBlock             Action = "BLOCK"
	ActionUnblock           Action = "UNBLOCK"
	ActionActivate          Action = "ACTIVATE"
	ActionChangePIN         Action = "CHANGE_PIN"

	// Account-level actions, decided by AccountActions.
	ActionOrderPhysical  Action = "ORDER_PHYSICAL"
	ActionReplaceVirtual Action = "REPLACE_VIRTUAL"
)

// CardActions lists the card-level actions in canonical order.
var CardActions = []Action{
	ActionViewSensitiveData,
	ActionBlock,
	ActionUnblock,
	ActionActivate,
	ActionChangePIN,
}

var allActions = append(append([]Action{}, CardActions...), ActionOrderPhysical, ActionReplaceVirtual)

// IsCardLevel reports whether the action targets a single card.
func (a Action) IsCardLevel() bool {
	for _, c := range CardActions {
		if a == c {
			return true
		}
	}
	return false
}

// ParseAction accepts the action name in any case.
func ParseAction(s string) (Action, error) {
	in := Action(strings.ToUpper(strings.TrimSpace(s)))
	for _, a := range allActions {
		if a == in {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown action %q", s)
}

// Actions is an ordered set of actions.
type Actions []Action

func (as Actions) Has(a Action) bool {
	for _, x := range as {
		if x == a {
			return true
		}
	}
	return false
}

func (as Actions) Strings() []string {
	out := make([]string, len(as))
	for i, a := range as {
		out[i] = string(a)
	}
	return out
}
