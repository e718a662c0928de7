package cardex

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ForTeamEffect/kap-front/cardex/models"
	"github.com/ForTeamEffect/kap-front/internal/cardgen"
	"github.com/ForTeamEffect/kap-front/internal/expiry"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

// DemoPersonID identifies the person seeded by SeedDemo.
const DemoPersonID = "demo-person"

var ErrInsufficientFunds = fmt.Errorf("insufficient wallet balance")

var _ Backend = (*MemoryBackend)(nil)

type cardSecret struct {
	pan            string
	expiry         string
	cardholderName string
	pin            string
}

// MemoryBackend is an in-memory card backend. It stands in for the issuing
// backend in development and tests and applies the same lifecycle transitions
// the real backend performs.
type MemoryBackend struct {
	mu sync.RWMutex

	persons  map[string]*models.Person
	balances map[string]decimal.Decimal
	secrets  map[string]*cardSecret
	orders   map[string]models.PhysicalCardOrder
	panIndex map[string]struct{}

	bin     string
	hashKey []byte
	expiry  expiry.Policy
	now     func() time.Time
}

func NewMemoryBackend(config *Config) *MemoryBackend {
	if config == nil {
		config = DefaultConfig()
	}
	return &MemoryBackend{
		persons:  make(map[string]*models.Person),
		balances: make(map[string]decimal.Decimal),
		secrets:  make(map[string]*cardSecret),
		orders:   make(map[string]models.PhysicalCardOrder),
		panIndex: make(map[string]struct{}),
		bin:      config.BINPrefix,
		hashKey:  []byte(config.PANHashKey),
		expiry:   config.ExpiryPolicy(),
		now:      time.Now,
	}
}

// AddPerson stores a copy of person with its wallet balance. secrets maps card
// IDs to the sensitive data of cards already present on the person.
func (b *MemoryBackend) AddPerson(person models.Person, secrets map[string]models.SensitiveData) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p := person.Clone()
	b.balances[p.ID] = p.WalletBalance
	p.WalletBalance = decimal.Zero
	b.persons[p.ID] = &p

	for cardID, s := range secrets {
		pan := cardgen.NormalizePAN(s.PAN)
		b.secrets[cardID] = &cardSecret{pan: pan, expiry: s.Expiry, cardholderName: s.CardholderName}
		b.panIndex[cardgen.Fingerprint(pan, b.hashKey)] = struct{}{}
	}
}

// SeedDemo adds the demo person: fully verified, one account with an active
// virtual card and an embossed physical card awaiting activation, and one
// account with a physical order in progress.
func (b *MemoryBackend) SeedDemo() {
	exp := b.expiry.ISO(b.now())
	b.AddPerson(models.Person{
		ID:                  DemoPersonID,
		FullName:            "John Doe",
		CountryCode:         "MX",
		TierLevel:           1,
		HasRequiredDocument: true,
		Addresses: []models.Address{{
			Formatted:       "123 Main St, Mexico City, 12345, Mexico",
			ModerationState: models.ModerationApproved,
			Active:          true,
		}},
		Accounts: []models.Account{
			{
				Name: "Personal Account",
				Cards: []models.Card{
					{ID: "card1", Class: models.CardClassVirtual, BlockState: models.BlockStateActive, Masked: cardgen.MaskPAN("4111222233331113"), Brand: "Visa"},
					{ID: "card2", Class: models.CardClassPhysical, BlockState: models.BlockStateBlocked, BlockReason: models.BlockReasonInitialBlock, Manufacturing: models.ManufacturingEmbossed, Masked: cardgen.MaskPAN("5555666677775559"), Brand: "Mastercard"},
				},
			},
			{
				Name:                 "Business Account",
				PhysicalOrderPending: true,
				Cards: []models.Card{
					{ID: "card3", Class: models.CardClassVirtual, BlockState: models.BlockStateBlocked, BlockReason: models.BlockReasonOwnerRequest, Masked: cardgen.MaskPAN("4222333344442222"), Brand: "Visa"},
				},
			},
		},
		WalletBalance: decimal.RequireFromString("2500.00"),
	}, map[string]models.SensitiveData{
		"card1": {PAN: "4111222233331113", Expiry: exp, CardholderName: "JOHN DOE"},
		"card2": {PAN: "5555666677775559", Expiry: exp, CardholderName: "JOHN DOE"},
		"card3": {PAN: "4222333344442222", Expiry: exp, CardholderName: "JOHN DOE"},
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders[orderKey(DemoPersonID, "Business Account")] = models.PhysicalCardOrder{
		AccountName:    "Business Account",
		CardholderName: "JOHN DOE",
		Price:          policy.DefaultPhysicalCardPrice,
	}
}

func (b *MemoryBackend) Person(_ context.Context, personID string) (models.Person, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	p, ok := b.persons[personID]
	if !ok {
		return models.Person{}, ErrNotFound
	}
	return p.Clone(), nil
}

func (b *MemoryBackend) WalletBalance(_ context.Context, personID string) (decimal.Decimal, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	balance, ok := b.balances[personID]
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	return balance, nil
}

// SetWalletBalance funds or drains the wallet of a person.
func (b *MemoryBackend) SetWalletBalance(personID string, balance decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.persons[personID]; !ok {
		return ErrNotFound
	}
	b.balances[personID] = balance
	return nil
}

func (b *MemoryBackend) CreateAccount(_ context.Context, personID, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.persons[personID]
	if !ok {
		return ErrNotFound
	}
	name = strings.TrimSpace(name)
	if _, exists := p.Account(name); exists {
		return fmt.Errorf("account %q already exists", name)
	}
	p.Accounts = append(p.Accounts, models.Account{Name: name})
	return nil
}

func (b *MemoryBackend) RenameAccount(_ context.Context, personID, name, newName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.account(personID, name)
	if err != nil {
		return err
	}
	newName = strings.TrimSpace(newName)
	if key := orderKey(personID, account.Name); b.hasOrder(key) {
		order := b.orders[key]
		order.AccountName = newName
		delete(b.orders, key)
		b.orders[orderKey(personID, newName)] = order
	}
	account.Name = newName
	return nil
}

func (b *MemoryBackend) CreateVirtualCard(_ context.Context, personID, accountName, cardholderName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.account(personID, accountName)
	if err != nil {
		return err
	}
	card, err := b.issue(models.CardClassVirtual, cardholderName)
	if err != nil {
		return fmt.Errorf("issuing virtual card: %w", err)
	}
	card.BlockState = models.BlockStateActive
	account.Cards = append(account.Cards, card)
	return nil
}

// OrderPhysicalCard charges the order price to the wallet and marks the
// account as having an order in progress.
func (b *MemoryBackend) OrderPhysicalCard(_ context.Context, personID string, order models.PhysicalCardOrder) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.account(personID, order.AccountName)
	if err != nil {
		return err
	}
	if account.PhysicalOrderPending {
		return fmt.Errorf("account %q already has a physical card order", account.Name)
	}
	balance := b.balances[personID]
	if balance.LessThan(order.Price) {
		return ErrInsufficientFunds
	}
	b.balances[personID] = balance.Sub(order.Price)
	account.PhysicalOrderPending = true
	order.AccountName = account.Name
	b.orders[orderKey(personID, account.Name)] = order
	return nil
}

// FulfilPhysicalOrder creates the ordered card. The card starts blocked with an
// initial block and pending manufacturing, and the account order flag clears.
func (b *MemoryBackend) FulfilPhysicalOrder(personID, accountName string) (models.Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	account, err := b.account(personID, accountName)
	if err != nil {
		return models.Card{}, err
	}
	key := orderKey(personID, account.Name)
	order, ok := b.orders[key]
	if !ok || !account.PhysicalOrderPending {
		return models.Card{}, fmt.Errorf("account %q has no physical card order: %w", account.Name, ErrNotFound)
	}

	card, err := b.issue(models.CardClassPhysical, order.CardholderName)
	if err != nil {
		return models.Card{}, fmt.Errorf("issuing physical card: %w", err)
	}
	card.BlockState = models.BlockStateBlocked
	card.BlockReason = models.BlockReasonInitialBlock
	card.Manufacturing = models.ManufacturingPending

	account.Cards = append(account.Cards, card)
	account.PhysicalOrderPending = false
	delete(b.orders, key)
	return card, nil
}

// MarkEmbossed finishes manufacturing of a physical card.
func (b *MemoryBackend) MarkEmbossed(personID, cardID string) (models.Card, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	card, err := b.card(personID, cardID)
	if err != nil {
		return models.Card{}, err
	}
	if !card.IsPhysical() {
		return models.Card{}, fmt.Errorf("%w: card %s is not a physical card", ErrValidation, cardID)
	}
	card.Manufacturing = models.ManufacturingEmbossed
	return *card, nil
}

func (b *MemoryBackend) ActivatePhysicalCard(_ context.Context, personID string, activation models.Activation) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	card, err := b.card(personID, activation.CardID)
	if err != nil {
		return err
	}
	secret, ok := b.secrets[card.ID]
	if !ok || secret.pan != cardgen.NormalizePAN(activation.PAN) {
		return cardgen.ErrPANMismatch
	}
	if err := b.transition(card, policy.ActionActivate); err != nil {
		return err
	}
	secret.pin = activation.PIN
	return nil
}

func (b *MemoryBackend) BlockCard(_ context.Context, personID, cardID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	card, err := b.card(personID, cardID)
	if err != nil {
		return err
	}
	return b.transition(card, policy.ActionBlock)
}

func (b *MemoryBackend) UnblockCard(_ context.Context, personID, cardID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	card, err := b.card(personID, cardID)
	if err != nil {
		return err
	}
	return b.transition(card, policy.ActionUnblock)
}

func (b *MemoryBackend) ChangePIN(_ context.Context, personID, cardID, pin string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	card, err := b.card(personID, cardID)
	if err != nil {
		return err
	}
	if err := b.transition(card, policy.ActionChangePIN); err != nil {
		return err
	}
	secret, ok := b.secrets[card.ID]
	if !ok {
		return ErrNotFound
	}
	secret.pin = pin
	return nil
}

func (b *MemoryBackend) SensitiveData(_ context.Context, personID, cardID string) (models.SensitiveData, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, err := b.card(personID, cardID); err != nil {
		return models.SensitiveData{}, err
	}
	secret, ok := b.secrets[cardID]
	if !ok {
		return models.SensitiveData{}, ErrNotFound
	}
	return models.SensitiveData{
		PAN:            secret.pan,
		Expiry:         secret.expiry,
		CardholderName: secret.cardholderName,
		CVV:            cardgen.DemoCVV(secret.pan, secret.expiry, b.hashKey),
	}, nil
}

func (b *MemoryBackend) Ping(ctx context.Context) error {
	return ctx.Err()
}

// PIN returns the PIN last set on the card, for tests and the dev console.
func (b *MemoryBackend) PIN(cardID string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	secret, ok := b.secrets[cardID]
	if !ok || secret.pin == "" {
		return "", false
	}
	return secret.pin, true
}

func (b *MemoryBackend) transition(card *models.Card, action policy.Action) error {
	next, err := policy.Apply(*card, action)
	if err != nil {
		return err
	}
	*card = next
	return nil
}

// issue generates a new card with a unique PAN. Callers hold the write lock.
func (b *MemoryBackend) issue(class models.CardClass, cardholderName string) (models.Card, error) {
	pan, err := cardgen.GenerateUniquePAN(b.bin, 5, func(pan string) bool {
		_, used := b.panIndex[cardgen.Fingerprint(pan, b.hashKey)]
		return used
	})
	if err != nil {
		return models.Card{}, err
	}
	b.panIndex[cardgen.Fingerprint(pan, b.hashKey)] = struct{}{}

	card := models.Card{
		ID:     uuid.NewString(),
		Class:  class,
		Masked: cardgen.MaskPAN(pan),
		Brand:  "Visa",
	}
	b.secrets[card.ID] = &cardSecret{
		pan:            pan,
		expiry:         b.expiry.ISO(b.now()),
		cardholderName: cardgen.NormalizeCardName(cardholderName),
	}
	return card, nil
}

func (b *MemoryBackend) account(personID, name string) (*models.Account, error) {
	p, ok := b.persons[personID]
	if !ok {
		return nil, ErrNotFound
	}
	name = strings.TrimSpace(name)
	for i := range p.Accounts {
		if strings.EqualFold(p.Accounts[i].Name, name) {
			return &p.Accounts[i], nil
		}
	}
	return nil, fmt.Errorf("account %q: %w", name, ErrNotFound)
}

func (b *MemoryBackend) card(personID, cardID string) (*models.Card, error) {
	p, ok := b.persons[personID]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range p.Accounts {
		for j := range p.Accounts[i].Cards {
			if p.Accounts[i].Cards[j].ID == cardID {
				return &p.Accounts[i].Cards[j], nil
			}
		}
	}
	return nil, fmt.Errorf("card %s: %w", cardID, ErrNotFound)
}

func (b *MemoryBackend) hasOrder(key string) bool {
	_, ok := b.orders[key]
	return ok
}

func orderKey(personID, accountName string) string {
	return personID + "/" + strings.ToLower(accountName)
}
