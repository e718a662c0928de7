package cardex_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/ForTeamEffect/kap-front/cardex"
	"github.com/ForTeamEffect/kap-front/cardex/models"
	"github.com/ForTeamEffect/kap-front/internal/cardgen"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

func newDemoBackend() *cardex.MemoryBackend {
	backend := cardex.NewMemoryBackend(cardex.DefaultConfig())
	backend.SeedDemo()
	return backend
}

func TestMemoryBackend_SeedDemo(t *testing.T) {
	ctx := context.Background()
	backend := newDemoBackend()

	person, err := backend.Person(ctx, cardex.DemoPersonID)
	require.NoError(t, err)
	require.Equal(t, policy.AccessFull, policy.Access(person))
	require.Len(t, person.Accounts, 2)

	balance, err := backend.WalletBalance(ctx, cardex.DemoPersonID)
	require.NoError(t, err)
	require.True(t, balance.Equal(decimal.RequireFromString("2500")))

	data, err := backend.SensitiveData(ctx, cardex.DemoPersonID, "card2")
	require.NoError(t, err)
	require.Equal(t, "5555666677775559", data.PAN)
	require.Len(t, data.CVV, 3)

	_, err = backend.Person(ctx, "nobody")
	require.ErrorIs(t, err, cardex.ErrNotFound)
}

func TestMemoryBackend_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	backend := newDemoBackend()

	person, err := backend.Person(ctx, cardex.DemoPersonID)
	require.NoError(t, err)
	person.Accounts[0].Cards[0].BlockState = models.BlockStateBlocked

	again, err := backend.Person(ctx, cardex.DemoPersonID)
	require.NoError(t, err)
	require.Equal(t, models.BlockStateActive, again.Accounts[0].Cards[0].BlockState)
}

func TestMemoryBackend_PhysicalOrderLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := newDemoBackend()

	order := models.PhysicalCardOrder{
		AccountName:    "Personal Account",
		CardholderName: "JOHN DOE",
		Price:          policy.DefaultPhysicalCardPrice,
	}
	require.NoError(t, backend.OrderPhysicalCard(ctx, cardex.DemoPersonID, order))
	require.Error(t, backend.OrderPhysicalCard(ctx, cardex.DemoPersonID, order))

	balance, _ := backend.WalletBalance(ctx, cardex.DemoPersonID)
	require.True(t, balance.Equal(decimal.RequireFromString("2000")))

	card, err := backend.FulfilPhysicalOrder(cardex.DemoPersonID, "Personal Account")
	require.NoError(t, err)
	require.Equal(t, models.CardClassPhysical, card.Class)
	require.Equal(t, models.BlockStateBlocked, card.BlockState)
	require.Equal(t, models.BlockReasonInitialBlock, card.BlockReason)
	require.Equal(t, models.ManufacturingPending, card.Manufacturing)

	person, _ := backend.Person(ctx, cardex.DemoPersonID)
	account, _ := person.Account("Personal Account")
	require.False(t, account.PhysicalOrderPending)
	require.Len(t, account.Cards, 3)

	data, err := backend.SensitiveData(ctx, cardex.DemoPersonID, card.ID)
	require.NoError(t, err)
	require.NoError(t, cardgen.ValidatePAN(data.PAN))
	require.True(t, cardgen.MatchesMasked(data.PAN, card.Masked))

	activation := models.Activation{AccountName: "Personal Account", CardID: card.ID, PAN: data.PAN, PIN: "1234"}
	require.ErrorIs(t, backend.ActivatePhysicalCard(ctx, cardex.DemoPersonID, activation), policy.ErrNotReady)

	_, err = backend.MarkEmbossed(cardex.DemoPersonID, card.ID)
	require.NoError(t, err)

	wrong := activation
	wrong.PAN = "4111222233331113"
	require.ErrorIs(t, backend.ActivatePhysicalCard(ctx, cardex.DemoPersonID, wrong), cardgen.ErrPANMismatch)

	require.NoError(t, backend.ActivatePhysicalCard(ctx, cardex.DemoPersonID, activation))
	pin, ok := backend.PIN(card.ID)
	require.True(t, ok)
	require.Equal(t, "1234", pin)

	_, err = backend.FulfilPhysicalOrder(cardex.DemoPersonID, "Personal Account")
	require.ErrorIs(t, err, cardex.ErrNotFound)
}

func TestMemoryBackend_OrderNeedsFunds(t *testing.T) {
	ctx := context.Background()
	backend := newDemoBackend()
	require.NoError(t, backend.SetWalletBalance(cardex.DemoPersonID, decimal.NewFromInt(10)))

	err := backend.OrderPhysicalCard(ctx, cardex.DemoPersonID, models.PhysicalCardOrder{
		AccountName: "Personal Account",
		Price:       policy.DefaultPhysicalCardPrice,
	})
	require.ErrorIs(t, err, cardex.ErrInsufficientFunds)
}

func TestMemoryBackend_Accounts(t *testing.T) {
	ctx := context.Background()
	backend := newDemoBackend()

	require.NoError(t, backend.CreateAccount(ctx, cardex.DemoPersonID, "Savings"))
	require.Error(t, backend.CreateAccount(ctx, cardex.DemoPersonID, "savings"))

	require.NoError(t, backend.RenameAccount(ctx, cardex.DemoPersonID, "Savings", "Holidays"))
	require.NoError(t, backend.CreateVirtualCard(ctx, cardex.DemoPersonID, "Holidays", "Jane Roe"))

	person, _ := backend.Person(ctx, cardex.DemoPersonID)
	account, ok := person.Account("Holidays")
	require.True(t, ok)
	require.Len(t, account.Cards, 1)
	require.Equal(t, models.CardClassVirtual, account.Cards[0].Class)
	require.Equal(t, models.BlockStateActive, account.Cards[0].BlockState)

	data, err := backend.SensitiveData(ctx, cardex.DemoPersonID, account.Cards[0].ID)
	require.NoError(t, err)
	require.Equal(t, "JANE ROE", data.CardholderName)

	require.ErrorIs(t, backend.RenameAccount(ctx, cardex.DemoPersonID, "Savings", "Other"), cardex.ErrNotFound)
}

func TestMemoryBackend_AppliesLifecycle(t *testing.T) {
	ctx := context.Background()
	backend := newDemoBackend()

	require.ErrorIs(t, backend.UnblockCard(ctx, cardex.DemoPersonID, "card2"), policy.ErrInvalidTransition)
	require.NoError(t, backend.UnblockCard(ctx, cardex.DemoPersonID, "card3"))
	require.NoError(t, backend.BlockCard(ctx, cardex.DemoPersonID, "card1"))
	require.ErrorIs(t, backend.ChangePIN(ctx, cardex.DemoPersonID, "card1", "1234"), policy.ErrUnsupported)
	require.ErrorIs(t, backend.BlockCard(ctx, cardex.DemoPersonID, "missing"), cardex.ErrNotFound)
}
