package cardex

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/cardex/models"
)

//go:generate mockgen -source=backend.go -destination=mocks/mocks.go -package=mocks

var ErrNotFound = fmt.Errorf("not found")

// Backend is the card-issuing backend that owns persons, accounts and cards.
// It is the source of truth: the service only reads snapshots from it and asks
// it to perform mutations the policy has already admitted.
type Backend interface {
	Person(ctx context.Context, personID string) (models.Person, error)
	WalletBalance(ctx context.Context, personID string) (decimal.Decimal, error)

	CreateAccount(ctx context.Context, personID, name string) error
	RenameAccount(ctx context.Context, personID, name, newName string) error

	CreateVirtualCard(ctx context.Context, personID, accountName, cardholderName string) error
	OrderPhysicalCard(ctx context.Context, personID string, order models.PhysicalCardOrder) error
	ActivatePhysicalCard(ctx context.Context, personID string, activation models.Activation) error

	BlockCard(ctx context.Context, personID, cardID string) error
	UnblockCard(ctx context.Context, personID, cardID string) error
	ChangePIN(ctx context.Context, personID, cardID, pin string) error
	SensitiveData(ctx context.Context, personID, cardID string) (models.SensitiveData, error)

	Ping(ctx context.Context) error
}
