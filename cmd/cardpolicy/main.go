// Command cardpolicy evaluates one card snapshot against the lifecycle policy
// and prints the permitted actions and, with -action, the resulting state.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ForTeamEffect/kap-front/cardex/models"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

var (
	flagClass     = flag.String("class", "VIRTUAL", "card class: VIRTUAL|PHYSICAL")
	flagState     = flag.String("state", "ACTIVE", "block state: ACTIVE|BLOCKED")
	flagReason    = flag.String("reason", "", "block reason: INITIAL_BLOCK|OWNER_REQUEST (empty for none)")
	flagEmbossing = flag.String("embossing", "", "manufacturing state: PENDING|EMBOSSED (physical cards)")
	flagAction    = flag.String("action", "", "action to apply, e.g. BLOCK")
)

type result struct {
	Card      models.Card  `json:"card"`
	Available []string     `json:"available_actions"`
	Action    string       `json:"action,omitempty"`
	Next      *models.Card `json:"next,omitempty"`
	Error     string       `json:"error,omitempty"`
	ErrorKind string       `json:"error_kind,omitempty"`
}

func main() {
	flag.Parse()

	card, err := parseCard(*flagClass, *flagState, *flagReason, *flagEmbossing)
	if err != nil {
		fail("%v", err)
	}
	res, err := evaluate(card, *flagAction)
	if err != nil {
		fail("%v", err)
	}
	if err := write(os.Stdout, res); err != nil {
		fail("%v", err)
	}
	if res.Error != "" {
		os.Exit(2)
	}
}

func parseCard(class, state, reason, embossing string) (models.Card, error) {
	card := models.Card{
		ID:            "cli",
		Class:         models.CardClass(strings.ToUpper(strings.TrimSpace(class))),
		BlockState:    models.BlockState(strings.ToUpper(strings.TrimSpace(state))),
		BlockReason:   models.BlockReason(strings.ToUpper(strings.TrimSpace(reason))),
		Manufacturing: models.ManufacturingState(strings.ToUpper(strings.TrimSpace(embossing))),
	}
	switch card.Class {
	case models.CardClassVirtual, models.CardClassPhysical:
	default:
		return models.Card{}, fmt.Errorf("-class must be VIRTUAL or PHYSICAL")
	}
	switch card.BlockState {
	case models.BlockStateActive, models.BlockStateBlocked:
	default:
		return models.Card{}, fmt.Errorf("-state must be ACTIVE or BLOCKED")
	}
	switch card.BlockReason {
	case models.BlockReasonNone, models.BlockReasonInitialBlock, models.BlockReasonOwnerRequest:
	default:
		return models.Card{}, fmt.Errorf("-reason must be INITIAL_BLOCK, OWNER_REQUEST or empty")
	}
	switch card.Manufacturing {
	case "", models.ManufacturingPending, models.ManufacturingEmbossed:
	default:
		return models.Card{}, fmt.Errorf("-embossing must be PENDING, EMBOSSED or empty")
	}
	return card, nil
}

func evaluate(card models.Card, action string) (result, error) {
	res := result{Card: card, Available: policy.AvailableActions(card).Strings()}
	if strings.TrimSpace(action) == "" {
		return res, nil
	}
	a, err := policy.ParseAction(action)
	if err != nil {
		return result{}, err
	}
	res.Action = string(a)

	next, err := policy.Apply(card, a)
	if err != nil {
		res.Error = err.Error()
		res.ErrorKind = errorKind(err)
		return res, nil
	}
	res.Next = &next
	return res, nil
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, policy.ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, policy.ErrNotReady):
		return "NOT_READY"
	case errors.Is(err, policy.ErrUnsupported):
		return "UNSUPPORTED"
	}
	return "UNKNOWN"
}

func write(w io.Writer, res result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func fail(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
