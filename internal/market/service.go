package market

import (
	"context"
	"fmt"
	"log/slog"

	"fairchain/internal/audit"
	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

// CatchRegister answers whether a catch has been verified.
type CatchRegister interface {
	IsVerified(ctx context.Context, id domain.CatchID) (bool, error)
}

// Certifier issues time-bounded market certifications for verified catches.
type Certifier struct {
	store   CertificationStore
	roles   RoleDirectory
	catches CatchRegister
	logger  *slog.Logger
	audit   *audit.Publisher
}

type CertifierOption func(*Certifier)

func WithCertifierLogger(logger *slog.Logger) CertifierOption {
	return func(c *Certifier) { c.logger = logger }
}

func WithCertifierAudit(publisher *audit.Publisher) CertifierOption {
	return func(c *Certifier) { c.audit = publisher }
}

func NewCertifier(store CertificationStore, roles RoleDirectory, catches CatchRegister, opts ...CertifierOption) (*Certifier, error) {
	if store == nil {
		return nil, fmt.Errorf("certification store is required")
	}
	if roles == nil {
		return nil, fmt.Errorf("role directory is required")
	}
	if catches == nil {
		return nil, fmt.Errorf("catch register is required")
	}
	c := &Certifier{store: store, roles: roles, catches: catches}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Certify writes (or overwrites) the certification for a verified catch.
// The caller must hold the certifier role; an unverified or unknown catch is
// refused. Unknown meets the same refusal as unverified: the gate is the
// verified flag, which an unknown catch cannot carry.
func (c *Certifier) Certify(ctx context.Context, catchID domain.CatchID, expiryOffset uint64, caller domain.Principal, now domain.Epoch) error {
	isCertifier, err := c.roles.IsCertifier(ctx, caller)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check certifier role")
	}
	if !isCertifier {
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not a certifier")
	}

	verified, err := c.catches.IsVerified(ctx, catchID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check catch verification")
	}
	if !verified {
		return dErrors.New(dErrors.CodeForbidden, "catch is not verified")
	}

	err = c.store.Put(ctx, Certification{
		CatchID:   catchID,
		IssuedAt:  now,
		Expiry:    now.Add(expiryOffset),
		Authority: caller,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store certification")
	}

	c.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionCatchCertified,
		Subject: catchID.String(),
		Detail:  fmt.Sprintf("expiry=%d", now.Add(expiryOffset)),
	})
	return nil
}

// IsCertified reports whether a valid certification exists at now. Validity
// is recomputed on every read.
func (c *Certifier) IsCertified(ctx context.Context, catchID domain.CatchID, now domain.Epoch) (bool, error) {
	cert, err := c.store.Get(ctx, catchID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certification")
	}
	return cert != nil && cert.Valid(now), nil
}

// CertificationOf returns the stored record regardless of validity; nil when
// the catch was never certified.
func (c *Certifier) CertificationOf(ctx context.Context, catchID domain.CatchID) (*Certification, error) {
	cert, err := c.store.Get(ctx, catchID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load certification")
	}
	return cert, nil
}
