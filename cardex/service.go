package cardex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"

	"github.com/ForTeamEffect/kap-front/cardex/metrics"
	"github.com/ForTeamEffect/kap-front/cardex/models"
	"github.com/ForTeamEffect/kap-front/internal/cardgen"
	"github.com/ForTeamEffect/kap-front/internal/expiry"
	"github.com/ForTeamEffect/kap-front/internal/policy"
)

// ErrValidation marks malformed user input. The wrapped error says which field.
var ErrValidation = errors.New("validation failed")

const tracerName = "github.com/ForTeamEffect/kap-front/cardex"

type OrderRequest struct {
	CardholderName string                 `json:"cardholderName" validate:"required,max=100"`
	Address        models.DeliveryAddress `json:"address"`
}

type ActivationRequest struct {
	CardID     string `json:"cardId"`
	PAN        string `json:"pan"`
	PIN        string `json:"pin"`
	PINConfirm string `json:"pinConfirm"`
}

// SensitiveView is the sensitive data of a card with its card face expiry and
// validity flags.
type SensitiveView struct {
	models.SensitiveData
	CardFace   string `json:"card_face"`
	Expired    bool   `json:"expired"`
	ReissueDue bool   `json:"reissue_due"`
}

// Service runs every CardEx operation as: snapshot, access gate, policy,
// backend call, fresh snapshot.
type Service struct {
	backend  Backend
	config   *Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	validate *validator.Validate
	tracer   trace.Tracer
}

func NewService(backend Backend, config *Config, logger *slog.Logger, m *metrics.Metrics) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	return &Service{
		backend:  backend,
		config:   config,
		logger:   logger,
		metrics:  m,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		tracer:   otel.Tracer(tracerName),
	}
}

// Snapshot reads the person and the wallet balance from the backend in
// parallel and returns them as one value.
func (s *Service) Snapshot(ctx context.Context, personID string) (models.Person, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		person  models.Person
		balance decimal.Decimal
	)
	g.Go(func() error {
		return s.call(ctx, "person", func(ctx context.Context) (err error) {
			person, err = s.backend.Person(ctx, personID)
			return err
		})
	})
	g.Go(func() error {
		return s.call(ctx, "wallet_balance", func(ctx context.Context) (err error) {
			balance, err = s.backend.WalletBalance(ctx, personID)
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return models.Person{}, fmt.Errorf("fetching person %s: %w", personID, err)
	}

	person.WalletBalance = balance
	return person, nil
}

func (s *Service) Access(ctx context.Context, personID string) (policy.AccessState, error) {
	ctx, span := s.start(ctx, "Access", personID)
	defer span.End()

	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return "", fail(span, err)
	}
	return s.access(person), nil
}

func (s *Service) Overview(ctx context.Context, personID string) (*Overview, error) {
	ctx, span := s.start(ctx, "Overview", personID)
	defer span.End()

	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return nil, fail(span, err)
	}
	return s.overview(person), nil
}

// CardActions returns the lifecycle actions currently permitted on the card.
func (s *Service) CardActions(ctx context.Context, personID, cardID string) (policy.Actions, error) {
	ctx, span := s.start(ctx, "CardActions", personID, attribute.String("card.id", cardID))
	defer span.End()

	person, err := s.gated(ctx, personID)
	if err != nil {
		return nil, fail(span, err)
	}
	card, _, ok := person.FindCard(cardID)
	if !ok {
		return nil, fail(span, fmt.Errorf("card %s: %w", cardID, ErrNotFound))
	}
	return policy.AvailableActions(card), nil
}

func (s *Service) CreateAccount(ctx context.Context, personID, name string) (*Overview, error) {
	ctx, span := s.start(ctx, "CreateAccount", personID)
	defer span.End()

	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return nil, fail(span, err)
	}
	if err := policy.CanCreateAccount(person, name); err != nil {
		return nil, fail(span, s.denied("CREATE_ACCOUNT", err))
	}
	name = strings.TrimSpace(name)
	err = s.call(ctx, "create_account", func(ctx context.Context) error {
		return s.backend.CreateAccount(ctx, personID, name)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("creating account: %w", err))
	}
	s.logger.Info("account created", slog.String("person_id", personID), slog.String("account", name))
	return s.refresh(ctx, span, personID)
}

func (s *Service) RenameAccount(ctx context.Context, personID, accountName, newName string) (*Overview, error) {
	ctx, span := s.start(ctx, "RenameAccount", personID)
	defer span.End()

	person, account, err := s.account(ctx, personID, accountName, "RENAME_ACCOUNT")
	if err != nil {
		return nil, fail(span, err)
	}
	if err := policy.CanRenameAccount(person, account, newName); err != nil {
		return nil, fail(span, s.denied("RENAME_ACCOUNT", err))
	}
	newName = strings.TrimSpace(newName)
	err = s.call(ctx, "rename_account", func(ctx context.Context) error {
		return s.backend.RenameAccount(ctx, personID, account.Name, newName)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("renaming account: %w", err))
	}
	s.logger.Info("account renamed", slog.String("person_id", personID), slog.String("from", account.Name), slog.String("to", newName))
	return s.refresh(ctx, span, personID)
}

// ReplaceVirtualCard issues a new virtual card on the account. Earlier cards
// stay on the account.
func (s *Service) ReplaceVirtualCard(ctx context.Context, personID, accountName, cardholderName string) (*Overview, error) {
	ctx, span := s.start(ctx, "ReplaceVirtualCard", personID)
	defer span.End()

	person, account, err := s.account(ctx, personID, accountName, string(policy.ActionReplaceVirtual))
	if err != nil {
		return nil, fail(span, err)
	}
	if err := policy.CanReplaceVirtual(person, cardholderName); err != nil {
		return nil, fail(span, s.denied(string(policy.ActionReplaceVirtual), err))
	}
	s.metrics.IncrementDecision(string(policy.ActionReplaceVirtual), "permitted")

	err = s.call(ctx, "create_virtual_card", func(ctx context.Context) error {
		return s.backend.CreateVirtualCard(ctx, personID, account.Name, cardgen.NormalizeCardName(cardholderName))
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("creating virtual card: %w", err))
	}
	s.logger.Info("virtual card issued", slog.String("person_id", personID), slog.String("account", account.Name))
	return s.refresh(ctx, span, personID)
}

// OrderPhysicalCard admits and places a physical card order at the configured
// price.
func (s *Service) OrderPhysicalCard(ctx context.Context, personID, accountName string, req OrderRequest) (*Overview, error) {
	ctx, span := s.start(ctx, "OrderPhysicalCard", personID)
	defer span.End()

	person, account, err := s.account(ctx, personID, accountName, string(policy.ActionOrderPhysical))
	if err != nil {
		return nil, fail(span, err)
	}
	if err := policy.CanOrderPhysical(account, person, s.config.PhysicalCardPrice); err != nil {
		return nil, fail(span, s.denied(string(policy.ActionOrderPhysical), err))
	}
	if err := s.validate.StructCtx(ctx, req); err != nil {
		return nil, fail(span, fmt.Errorf("%w: %w", ErrValidation, err))
	}
	s.metrics.IncrementDecision(string(policy.ActionOrderPhysical), "permitted")

	order := models.PhysicalCardOrder{
		AccountName:    account.Name,
		CardholderName: cardgen.NormalizeCardName(req.CardholderName),
		Price:          s.config.PhysicalCardPrice,
		Address:        req.Address,
	}
	err = s.call(ctx, "order_physical_card", func(ctx context.Context) error {
		return s.backend.OrderPhysicalCard(ctx, personID, order)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("ordering physical card: %w", err))
	}
	s.logger.Info("physical card ordered",
		slog.String("person_id", personID),
		slog.String("account", account.Name),
		slog.String("price", order.Price.StringFixed(2)),
	)
	return s.refresh(ctx, span, personID)
}

// ActivatePhysicalCard activates a delivered physical card and sets its PIN.
// Without a card ID the latest physical card of the account is used.
func (s *Service) ActivatePhysicalCard(ctx context.Context, personID, accountName string, req ActivationRequest) (*Overview, error) {
	ctx, span := s.start(ctx, "ActivatePhysicalCard", personID)
	defer span.End()

	_, account, err := s.account(ctx, personID, accountName, string(policy.ActionActivate))
	if err != nil {
		return nil, fail(span, err)
	}

	var (
		card models.Card
		ok   bool
	)
	if req.CardID != "" {
		card, ok = account.Card(req.CardID)
	} else {
		card, ok = account.LatestCard(models.CardClassPhysical)
	}
	if !ok {
		return nil, fail(span, fmt.Errorf("physical card on account %q: %w", account.Name, ErrNotFound))
	}
	if _, err := s.decide(card, policy.ActionActivate); err != nil {
		return nil, fail(span, err)
	}

	pan, err := cardgen.ValidateActivationPAN(req.PAN)
	if err != nil {
		return nil, fail(span, fmt.Errorf("%w: %w", ErrValidation, err))
	}
	if card.Masked != "" && !cardgen.MatchesMasked(pan, card.Masked) {
		return nil, fail(span, fmt.Errorf("%w: %w", ErrValidation, cardgen.ErrPANMismatch))
	}
	if err := cardgen.ValidatePIN(req.PIN, req.PINConfirm); err != nil {
		return nil, fail(span, fmt.Errorf("%w: %w", ErrValidation, err))
	}

	activation := models.Activation{AccountName: account.Name, CardID: card.ID, PAN: pan, PIN: req.PIN}
	err = s.call(ctx, "activate_physical_card", func(ctx context.Context) error {
		return s.backend.ActivatePhysicalCard(ctx, personID, activation)
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("activating card: %w", err))
	}
	s.logger.Info("physical card activated", slog.String("person_id", personID), slog.String("card_id", card.ID))
	return s.refresh(ctx, span, personID)
}

func (s *Service) BlockCard(ctx context.Context, personID, cardID string) (*Overview, error) {
	return s.cardAction(ctx, personID, cardID, policy.ActionBlock, "block_card", nil, func(ctx context.Context) error {
		return s.backend.BlockCard(ctx, personID, cardID)
	})
}

func (s *Service) UnblockCard(ctx context.Context, personID, cardID string) (*Overview, error) {
	return s.cardAction(ctx, personID, cardID, policy.ActionUnblock, "unblock_card", nil, func(ctx context.Context) error {
		return s.backend.UnblockCard(ctx, personID, cardID)
	})
}

// ChangePIN sets a new PIN once the policy admits the change and the PIN and its
// confirmation are valid.
func (s *Service) ChangePIN(ctx context.Context, personID, cardID, pin, confirm string) (*Overview, error) {
	validate := func() error { return cardgen.ValidatePIN(pin, confirm) }
	return s.cardAction(ctx, personID, cardID, policy.ActionChangePIN, "change_pin", validate, func(ctx context.Context) error {
		return s.backend.ChangePIN(ctx, personID, cardID, pin)
	})
}

func (s *Service) ViewSensitiveData(ctx context.Context, personID, cardID string) (*SensitiveView, error) {
	ctx, span := s.start(ctx, "ViewSensitiveData", personID, attribute.String("card.id", cardID))
	defer span.End()

	person, err := s.gated(ctx, personID)
	if err != nil {
		return nil, fail(span, err)
	}
	card, _, ok := person.FindCard(cardID)
	if !ok {
		return nil, fail(span, fmt.Errorf("card %s: %w", cardID, ErrNotFound))
	}
	if _, err := s.decide(card, policy.ActionViewSensitiveData); err != nil {
		return nil, fail(span, err)
	}

	var data models.SensitiveData
	err = s.call(ctx, "sensitive_data", func(ctx context.Context) (err error) {
		data, err = s.backend.SensitiveData(ctx, personID, cardID)
		return err
	})
	if err != nil {
		return nil, fail(span, fmt.Errorf("fetching sensitive data: %w", err))
	}

	view := &SensitiveView{SensitiveData: data}
	if err := s.describeExpiry(view, time.Now()); err != nil {
		s.logger.Warn("unreadable card expiry", slog.String("card_id", cardID), slog.Any("err", err))
	}
	return view, nil
}

func (s *Service) describeExpiry(view *SensitiveView, now time.Time) error {
	face, err := expiry.CardFaceFromISO(view.Expiry)
	if err != nil {
		return err
	}
	view.CardFace = face

	loc, err := s.config.ExpiryLocation()
	if err != nil {
		return err
	}
	if view.Expired, err = expiry.IsExpired(view.Expiry, now, loc); err != nil {
		return err
	}
	if !view.Expired {
		view.ReissueDue, err = expiry.ReissueDue(view.Expiry, now, loc, s.config.ReissueWindowDays)
	}
	return err
}

// cardAction runs a card-level lifecycle action through gate, policy, input
// validation and backend and returns the fresh overview.
func (s *Service) cardAction(ctx context.Context, personID, cardID string, action policy.Action, operation string, validate func() error, run func(ctx context.Context) error) (*Overview, error) {
	ctx, span := s.start(ctx, string(action), personID, attribute.String("card.id", cardID))
	defer span.End()

	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return nil, fail(span, err)
	}
	s.access(person)
	if err := policy.RequireAccess(person); err != nil {
		return nil, fail(span, s.denied(string(action), err))
	}
	card, _, ok := person.FindCard(cardID)
	if !ok {
		return nil, fail(span, fmt.Errorf("card %s: %w", cardID, ErrNotFound))
	}
	if _, err := s.decide(card, action); err != nil {
		return nil, fail(span, err)
	}
	if validate != nil {
		if err := validate(); err != nil {
			return nil, fail(span, fmt.Errorf("%w: %w", ErrValidation, err))
		}
	}

	if err := s.call(ctx, operation, run); err != nil {
		return nil, fail(span, fmt.Errorf("%s: %w", strings.ReplaceAll(operation, "_", " "), err))
	}
	s.logger.Info("card action applied",
		slog.String("person_id", personID),
		slog.String("card_id", cardID),
		slog.String("action", string(action)),
	)
	return s.refresh(ctx, span, personID)
}

// decide evaluates the lifecycle policy and records the outcome.
func (s *Service) decide(card models.Card, action policy.Action) (models.Card, error) {
	next, err := policy.Apply(card, action)
	s.metrics.IncrementDecision(string(action), outcome(err))
	return next, err
}

func (s *Service) denied(action string, err error) error {
	s.metrics.IncrementDecision(action, outcome(err))
	return err
}

// gated returns the snapshot only when the person has full access.
func (s *Service) gated(ctx context.Context, personID string) (models.Person, error) {
	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return models.Person{}, err
	}
	s.access(person)
	if err := policy.RequireAccess(person); err != nil {
		return models.Person{}, err
	}
	return person, nil
}

// account resolves an account for an account-level action. The access gate
// runs before the lookup.
func (s *Service) account(ctx context.Context, personID, accountName, action string) (models.Person, models.Account, error) {
	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return models.Person{}, models.Account{}, err
	}
	s.access(person)
	if err := policy.RequireAccess(person); err != nil {
		return models.Person{}, models.Account{}, s.denied(action, err)
	}
	account, ok := person.Account(accountName)
	if !ok {
		return models.Person{}, models.Account{}, fmt.Errorf("account %q: %w", accountName, ErrNotFound)
	}
	return person, account, nil
}

func (s *Service) access(person models.Person) policy.AccessState {
	state := policy.Access(person)
	s.metrics.IncrementAccessState(string(state))
	return state
}

// refresh re-reads the backend after a mutation. The policy never predicts the
// state the backend ends up in.
func (s *Service) refresh(ctx context.Context, span trace.Span, personID string) (*Overview, error) {
	person, err := s.Snapshot(ctx, personID)
	if err != nil {
		return nil, fail(span, fmt.Errorf("refreshing snapshot: %w", err))
	}
	return s.overview(person), nil
}

// call runs one backend request under the configured timeout and records its
// latency.
func (s *Service) call(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	if s.config.BackendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.BackendTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(ctx)
	s.metrics.ObserveBackendCall(operation, time.Since(start), err)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("backend call failed", slog.String("operation", operation), slog.Any("err", err))
	}
	return err
}

func (s *Service) start(ctx context.Context, op, personID string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("person.id", personID))
	return s.tracer.Start(ctx, "cardex."+op, trace.WithAttributes(attrs...))
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "permitted"
	case errors.Is(err, policy.ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, policy.ErrOrderDenied):
		return "order_denied"
	case errors.Is(err, policy.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, policy.ErrNotReady):
		return "not_ready"
	case errors.Is(err, policy.ErrUnsupported):
		return "unsupported"
	default:
		return "rejected"
	}
}
