package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"condovote/internal/condominium/models"
	id "condovote/pkg/domain"
	dErrors "condovote/pkg/domain-errors"
	"condovote/pkg/platform/audit"
	"condovote/pkg/platform/sentinel"
	"condovote/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByTaxCode(ctx context.Context, taxCode id.TaxCode) (*models.User, error)
	SetCommitment(ctx context.Context, taxCode id.TaxCode, commitment string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Enroller creates resident accounts and registers their commitment once.
type Enroller struct {
	users          UserStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Enroller)

func WithLogger(logger *slog.Logger) Option {
	return func(e *Enroller) {
		e.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(e *Enroller) {
		e.auditPublisher = publisher
	}
}

func NewEnroller(users UserStore, opts ...Option) *Enroller {
	e := &Enroller{users: users, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type EnrollUserRequest struct {
	TaxCode    string `json:"taxCode"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	BirthDate  string `json:"birthDate,omitempty"`
	BirthPlace string `json:"birthPlace,omitempty"`
}

// EnrollUser creates the account of a resident. Credentials are handled by
// the token issuer, not here.
func (e *Enroller) EnrollUser(ctx context.Context, req EnrollUserRequest) (*models.User, error) {
	taxCode, err := id.ParseTaxCode(req.TaxCode)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid tax code")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "name is required")
	}
	u := &models.User{
		TaxCode:      taxCode,
		Name:         name,
		Email:        strings.TrimSpace(req.Email),
		BirthDate:    strings.TrimSpace(req.BirthDate),
		BirthPlace:   strings.TrimSpace(req.BirthPlace),
		Condominiums: []id.CondominiumID{},
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := e.users.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "user already enrolled")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to enroll user")
	}
	return u, nil
}

// Register stores the resident's identity commitment. Registering the same
// value again succeeds; a different value is a conflict.
func (e *Enroller) Register(ctx context.Context, taxCode id.TaxCode, commitment string) error {
	canonical, err := models.ParseCommitment(commitment)
	if err != nil {
		return err
	}
	if err := e.users.SetCommitment(ctx, taxCode, canonical); err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		case errors.Is(err, sentinel.ErrAlreadySet):
			return dErrors.New(dErrors.CodeConflict, "a different commitment is already registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register commitment")
	}
	e.logAudit(ctx, audit.EventCommitmentRegistered, taxCode)
	return nil
}

// logAudit never fails the caller; a publisher error is logged instead.
func (e *Enroller) logAudit(ctx context.Context, event audit.AuditEvent, taxCode id.TaxCode) {
	requestID := requestcontext.RequestID(ctx)
	e.logger.InfoContext(ctx, string(event),
		"event", string(event),
		"log_type", "audit",
		"request_id", requestID,
	)
	if e.auditPublisher == nil {
		return
	}
	if err := e.auditPublisher.Emit(ctx, audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Subject:   taxCode.String(),
		Action:    string(event),
		RequestID: requestID,
		ActorID:   taxCode.String(),
	}); err != nil {
		e.logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}

// Commitment returns the registered commitment, or "" when none is set.
func (e *Enroller) Commitment(ctx context.Context, taxCode id.TaxCode) (string, error) {
	u, err := e.users.FindByTaxCode(ctx, taxCode)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u.Commitment, nil
}
