// Package service implements the lease lifecycle state machine.
//
// Every mutating operation follows the same discipline: acquire the
// reentrancy guard before any state read, run all local precondition checks,
// make the external registry call, and commit local state only after the
// registry confirms. The guard stays held across the external call so a
// registry that calls back into the registrar fails with CodeReentrant
// instead of observing half-committed state.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"leasehold/internal/events"
	"leasehold/internal/gate"
	"leasehold/internal/namehash"
	"leasehold/internal/registrar/metrics"
	"leasehold/internal/registrar/models"
	"leasehold/internal/registrar/store"
	"leasehold/internal/treasury"
	"leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/sentinel"
)

// RegistryClient is the consumed capability set of the external naming
// registry. See internal/registry for implementations.
type RegistryClient interface {
	OwnerOf(ctx context.Context, node domain.NameID) (domain.Identity, error)
	BindLabel(ctx context.Context, parent domain.NameID, labelHash domain.LabelHash, owner domain.Identity) error
	SetNamespaceOwner(ctx context.Context, node domain.NameID, owner domain.Identity) error
}

// TokenIssuer is the capability slice of the ownership token issuer the
// ledger may use. Owner identity is never mutated here except through
// Mint and Rebind.
type TokenIssuer interface {
	Mint(owner domain.Identity) domain.TokenID
	OwnerOf(id domain.TokenID) (domain.Identity, error)
	Rebind(id domain.TokenID, owner domain.Identity) error
}

// Service orchestrates lease registration, renewal, and administration for
// one parent namespace.
type Service struct {
	parent        domain.NameID
	self          domain.Identity
	leaseDuration time.Duration

	store    store.Store
	tokens   TokenIssuer
	registry RegistryClient
	gate     *gate.Gate
	treasury *treasury.Treasury

	logger  *slog.Logger
	metrics *metrics.Metrics
	events  events.Publisher
	clock   func() time.Time
	tracer  trace.Tracer
}

// Option configures optional Service collaborators.
type Option func(s *Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics sets the registrar metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithEvents sets the notification publisher.
func WithEvents(p events.Publisher) Option {
	return func(s *Service) { s.events = p }
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs a Service for the given parent namespace.
//
// self is the identity the registrar binds child names to in the external
// registry: the registrar holds delegated ownership so it can enforce the
// lease, while the caller's claim is represented by the ownership token.
func New(
	parent domain.NameID,
	self domain.Identity,
	leaseDuration time.Duration,
	st store.Store,
	tokens TokenIssuer,
	reg RegistryClient,
	g *gate.Gate,
	tr *treasury.Treasury,
	opts ...Option,
) *Service {
	s := &Service{
		parent:        parent,
		self:          self,
		leaseDuration: leaseDuration,
		store:         st,
		tokens:        tokens,
		registry:      reg,
		gate:          g,
		treasury:      tr,
		logger:        slog.New(slog.DiscardHandler),
		clock:         time.Now,
		tracer:        otel.Tracer("leasehold/registrar"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register leases a label to caller.
//
// Ordering is load-bearing: all local checks run first, the irrevocable
// external bind runs second, and local commits happen only once the bind has
// succeeded. A failure before the bind leaves no trace anywhere; a failure
// of the bind leaves no local trace.
func (s *Service) Register(ctx context.Context, rawLabel string, payment uint64, caller domain.Identity) (models.Registration, error) {
	ctx, span := s.tracer.Start(ctx, "registrar.Register",
		trace.WithAttributes(attribute.String("label", rawLabel)))
	defer span.End()
	start := time.Now()

	release, err := s.gate.Enter()
	if err != nil {
		s.countFailure("register", err)
		return models.Registration{}, err
	}
	defer release()

	reg, err := s.register(ctx, rawLabel, payment, caller)
	if err != nil {
		s.countFailure("register", err)
		return models.Registration{}, err
	}

	if s.metrics != nil {
		s.metrics.Registrations.Inc()
		s.metrics.TreasuryBalance.Set(float64(s.treasury.Balance()))
		s.metrics.ObserveRegister(start)
	}
	s.logger.InfoContext(ctx, "lease registered",
		"label", reg.Label,
		"owner", reg.Owner,
		"token_id", uint64(reg.TokenID),
		"end_time", reg.Lease.EndTime,
	)
	s.publish(ctx, events.Event{
		Type:      events.TypeLeaseRegistered,
		Label:     reg.Label,
		Owner:     reg.Owner,
		StartTime: reg.Lease.StartTime,
		EndTime:   reg.Lease.EndTime,
		TokenID:   reg.TokenID,
		Amount:    payment,
	})
	return reg, nil
}

func (s *Service) register(ctx context.Context, rawLabel string, payment uint64, caller domain.Identity) (models.Registration, error) {
	if err := s.gate.RequireRunning(); err != nil {
		return models.Registration{}, err
	}
	label, err := domain.ParseLabel(rawLabel)
	if err != nil {
		return models.Registration{}, err
	}
	if err := s.treasury.RequirePayment(payment); err != nil {
		return models.Registration{}, err
	}

	node := namehash.Derive(s.parent, label)

	// Registration is allowed when the registry has never recorded an owner,
	// or when the recorded lease has expired. A node with no recorded lease
	// behaves as one that expired at the zero time, whoever the registry
	// says owns it; this is the same convention Renew and IsActive apply,
	// and it keeps a node recoverable when a bind succeeded but the lease
	// write behind it did not.
	owner, err := s.registry.OwnerOf(ctx, node)
	if err != nil {
		return models.Registration{}, dErrors.Wrap(err, dErrors.CodeRegistryFailure, "failed to query current owner")
	}
	if !owner.IsZero() {
		lease, err := s.store.GetLease(ctx, node)
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			// Expired at the zero time; proceed.
		case err != nil:
			return models.Registration{}, storeError(err, "failed to load lease")
		case lease.Active(s.clock()):
			return models.Registration{}, dErrors.New(dErrors.CodeAlreadyRegistered, "name has an active lease")
		}
	}

	// The untrusted call. The reentrancy guard is still held, so a registry
	// that re-enters the registrar fails without seeing partial state.
	if err := s.registry.BindLabel(ctx, s.parent, namehash.LabelHash(label), s.self); err != nil {
		return models.Registration{}, dErrors.Wrap(err, dErrors.CodeRegistryFailure, "registry rejected the bind")
	}

	// Commit. The name keeps its token across expiry: a re-registration
	// rebinds the existing token to the new caller instead of minting,
	// so token ids stay one-to-one with names.
	tokenID, err := s.store.TokenID(ctx, node)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		tokenID = s.tokens.Mint(caller)
		if err := s.store.BindTokenID(ctx, node, tokenID); err != nil {
			return models.Registration{}, storeError(err, "failed to bind token")
		}
	case err != nil:
		return models.Registration{}, storeError(err, "failed to load token binding")
	default:
		if err := s.tokens.Rebind(tokenID, caller); err != nil {
			return models.Registration{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to rebind token")
		}
	}

	now := s.clock()
	lease := models.Lease{
		NameID:    node,
		StartTime: now,
		EndTime:   now.Add(s.leaseDuration),
	}
	if err := s.store.PutLease(ctx, lease); err != nil {
		return models.Registration{}, storeError(err, "failed to record lease")
	}
	s.treasury.Deposit(payment)

	return models.Registration{Lease: lease, Label: label, Owner: caller, TokenID: tokenID}, nil
}

// Renew extends the lease on a label by one lease duration.
//
// Authorization is delegated to the external registry's recorded owner, not
// to the local token owner. The extension starts from the prior EndTime even
// when the lease has already expired; renewing an expired lease pushes the
// window forward from where it ended, not from now.
func (s *Service) Renew(ctx context.Context, rawLabel string, payment uint64, caller domain.Identity) (models.Lease, error) {
	ctx, span := s.tracer.Start(ctx, "registrar.Renew",
		trace.WithAttributes(attribute.String("label", rawLabel)))
	defer span.End()
	start := time.Now()

	release, err := s.gate.Enter()
	if err != nil {
		s.countFailure("renew", err)
		return models.Lease{}, err
	}
	defer release()

	label, lease, tokenID, err := s.renew(ctx, rawLabel, payment, caller)
	if err != nil {
		s.countFailure("renew", err)
		return models.Lease{}, err
	}

	if s.metrics != nil {
		s.metrics.Renewals.Inc()
		s.metrics.TreasuryBalance.Set(float64(s.treasury.Balance()))
		s.metrics.ObserveRenew(start)
	}
	s.logger.InfoContext(ctx, "lease renewed",
		"label", label,
		"owner", caller,
		"end_time", lease.EndTime,
	)
	s.publish(ctx, events.Event{
		Type:      events.TypeLeaseRenewed,
		Label:     label,
		Owner:     caller,
		StartTime: lease.StartTime,
		EndTime:   lease.EndTime,
		TokenID:   tokenID,
		Amount:    payment,
	})
	return lease, nil
}

func (s *Service) renew(ctx context.Context, rawLabel string, payment uint64, caller domain.Identity) (domain.Label, models.Lease, domain.TokenID, error) {
	if err := s.gate.RequireRunning(); err != nil {
		return "", models.Lease{}, 0, err
	}
	label, err := domain.ParseLabel(rawLabel)
	if err != nil {
		return "", models.Lease{}, 0, err
	}
	if err := s.treasury.RequirePayment(payment); err != nil {
		return "", models.Lease{}, 0, err
	}

	node := namehash.Derive(s.parent, label)

	owner, err := s.registry.OwnerOf(ctx, node)
	if err != nil {
		return "", models.Lease{}, 0, dErrors.Wrap(err, dErrors.CodeRegistryFailure, "failed to query current owner")
	}
	if owner.IsZero() || owner != caller {
		return "", models.Lease{}, 0, dErrors.New(dErrors.CodeUnauthorized, "caller is not the recorded owner")
	}

	lease, err := s.store.GetLease(ctx, node)
	if errors.Is(err, sentinel.ErrNotFound) {
		// No recorded lease behaves as one that expired at the zero time.
		lease = models.Lease{NameID: node}
	} else if err != nil {
		return "", models.Lease{}, 0, storeError(err, "failed to load lease")
	}

	lease.EndTime = lease.EndTime.Add(s.leaseDuration)
	if err := s.store.PutLease(ctx, lease); err != nil {
		return "", models.Lease{}, 0, storeError(err, "failed to record lease")
	}
	s.treasury.Deposit(payment)

	// Token binding for the renewal notification. A name renewed without
	// ever registering through us has no token; observers see zero.
	tokenID, err := s.store.TokenID(ctx, node)
	if err != nil {
		tokenID = 0
	}

	return label, lease, tokenID, nil
}

// IsActive reports whether the label's lease covers the current time. It is
// read-only and never touches the reentrancy guard. A name with no lease
// reports inactive.
func (s *Service) IsActive(ctx context.Context, rawLabel string) (bool, error) {
	label, err := domain.ParseLabel(rawLabel)
	if err != nil {
		return false, err
	}

	lease, err := s.store.GetLease(ctx, namehash.Derive(s.parent, label))
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError(err, "failed to load lease")
	}
	return lease.Active(s.clock()), nil
}

// Lease returns the current lease for a label, for the read-only query
// surface. Missing leases surface CodeNotFound.
func (s *Service) Lease(ctx context.Context, rawLabel string) (models.Lease, error) {
	label, err := domain.ParseLabel(rawLabel)
	if err != nil {
		return models.Lease{}, err
	}

	lease, err := s.store.GetLease(ctx, namehash.Derive(s.parent, label))
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.Lease{}, dErrors.New(dErrors.CodeNotFound, "no lease recorded for label")
	}
	if err != nil {
		return models.Lease{}, storeError(err, "failed to load lease")
	}
	return lease, nil
}

// SetFee updates the registration fee. Administrator only.
func (s *Service) SetFee(ctx context.Context, caller domain.Identity, fee uint64) error {
	release, err := s.gate.Enter()
	if err != nil {
		return err
	}
	defer release()

	if err := s.gate.RequireAdmin(caller); err != nil {
		return err
	}
	s.treasury.SetFee(fee)

	s.logger.InfoContext(ctx, "fee updated", "fee", fee)
	s.publish(ctx, events.Event{Type: events.TypeFeeUpdated, Amount: fee})
	return nil
}

// Withdraw drains the accumulated balance to the administrator. The transfer
// itself is the platform's concern; the registrar accounts for the drain.
func (s *Service) Withdraw(ctx context.Context, caller domain.Identity) (uint64, error) {
	release, err := s.gate.Enter()
	if err != nil {
		return 0, err
	}
	defer release()

	if err := s.gate.RequireAdmin(caller); err != nil {
		return 0, err
	}
	amount := s.treasury.Withdraw()
	if s.metrics != nil {
		s.metrics.TreasuryBalance.Set(0)
	}

	s.logger.InfoContext(ctx, "treasury withdrawn", "amount", amount)
	s.publish(ctx, events.Event{Type: events.TypeTreasuryWithdrawn, Owner: caller, Amount: amount})
	return amount, nil
}

// Pause blocks registration and renewal. Administrator only.
func (s *Service) Pause(ctx context.Context, caller domain.Identity) error {
	release, err := s.gate.Enter()
	if err != nil {
		return err
	}
	defer release()

	if err := s.gate.Pause(caller); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "registrar paused")
	s.publish(ctx, events.Event{Type: events.TypeRegistrarPaused})
	return nil
}

// Unpause re-enables registration and renewal. Administrator only.
func (s *Service) Unpause(ctx context.Context, caller domain.Identity) error {
	release, err := s.gate.Enter()
	if err != nil {
		return err
	}
	defer release()

	if err := s.gate.Unpause(caller); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "registrar unpaused")
	s.publish(ctx, events.Event{Type: events.TypeRegistrarUnpaused})
	return nil
}

// TransferNamespace asks the registry to reassign the parent namespace
// itself. Administrator only; used when this registrar is being replaced.
func (s *Service) TransferNamespace(ctx context.Context, caller, newOwner domain.Identity) error {
	release, err := s.gate.Enter()
	if err != nil {
		return err
	}
	defer release()

	if err := s.gate.RequireAdmin(caller); err != nil {
		return err
	}
	if newOwner.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "new owner cannot be empty")
	}
	if err := s.registry.SetNamespaceOwner(ctx, s.parent, newOwner); err != nil {
		return dErrors.Wrap(err, dErrors.CodeRegistryFailure, "registry rejected the namespace transfer")
	}

	s.logger.InfoContext(ctx, "namespace transferred", "new_owner", newOwner)
	s.publish(ctx, events.Event{Type: events.TypeNamespaceTransferred, Owner: newOwner})
	return nil
}

// TransferAdmin hands the administrator role to next. Administrator only.
func (s *Service) TransferAdmin(ctx context.Context, caller, next domain.Identity) error {
	release, err := s.gate.Enter()
	if err != nil {
		return err
	}
	defer release()

	if err := s.gate.TransferAdmin(caller, next); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "administrator transferred", "new_admin", next)
	return nil
}

// Fee returns the configured fee. Read-only, no guard.
func (s *Service) Fee() uint64 { return s.treasury.Fee() }

// Paused reports the pause flag. Read-only, no guard.
func (s *Service) Paused() bool { return s.gate.Paused() }

// Admin returns the administrator identity. Read-only, no guard.
func (s *Service) Admin() domain.Identity { return s.gate.Admin() }

// TokenOwner returns the current owner of a token id.
func (s *Service) TokenOwner(id domain.TokenID) (domain.Identity, error) {
	return s.tokens.OwnerOf(id)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, events.Stamp(event, s.clock())); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event",
			"event_type", string(event.Type),
			"error", err,
		)
	}
}

// storeError translates a store failure into a coded error: transport
// outages surface CodeUnavailable so callers can retry, everything else is
// CodeInternal.
func storeError(err error, msg string) error {
	if errors.Is(err, sentinel.ErrUnavailable) {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, msg)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}

func (s *Service) countFailure(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.Failures.WithLabelValues(operation, string(dErrors.CodeOf(err))).Inc()
}
