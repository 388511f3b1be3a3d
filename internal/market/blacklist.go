package market

import (
	"context"
	"fmt"
	"log/slog"

	"fairchain/internal/audit"
	"fairchain/pkg/domain"
	dErrors "fairchain/pkg/domain-errors"
)

// RoleDirectory answers the authorization questions the market component
// asks: who is the administrator, who may certify.
type RoleDirectory interface {
	IsAdmin(principal domain.Principal) bool
	IsCertifier(ctx context.Context, principal domain.Principal) (bool, error)
}

// Blacklist owns the deny-list of entities barred from registering vessels.
// Mutations are administrator-only; presence alone is the gate.
type Blacklist struct {
	store  BlacklistStore
	roles  RoleDirectory
	logger *slog.Logger
	audit  *audit.Publisher
}

type BlacklistOption func(*Blacklist)

func WithBlacklistLogger(logger *slog.Logger) BlacklistOption {
	return func(b *Blacklist) { b.logger = logger }
}

func WithBlacklistAudit(publisher *audit.Publisher) BlacklistOption {
	return func(b *Blacklist) { b.audit = publisher }
}

func NewBlacklist(store BlacklistStore, roles RoleDirectory, opts ...BlacklistOption) (*Blacklist, error) {
	if store == nil {
		return nil, fmt.Errorf("blacklist store is required")
	}
	if roles == nil {
		return nil, fmt.Errorf("role directory is required")
	}
	b := &Blacklist{store: store, roles: roles}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Blacklist bars the entity. Re-blacklisting overwrites reason and epoch.
func (b *Blacklist) Blacklist(ctx context.Context, entity domain.Principal, reason string, caller domain.Principal, now domain.Epoch) error {
	if !b.roles.IsAdmin(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "only the administrator may blacklist")
	}
	if entity.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "entity is required")
	}
	err := b.store.Add(ctx, BlacklistEntry{
		Entity:        entity,
		Reason:        reason,
		BlacklistedAt: now,
	})
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to store blacklist entry")
	}
	b.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionEntityBlacklisted,
		Subject: entity.String(),
		Detail:  reason,
	})
	return nil
}

// Unblacklist lifts the bar. Removing an absent entity is a no-op success.
func (b *Blacklist) Unblacklist(ctx context.Context, entity domain.Principal, caller domain.Principal, now domain.Epoch) error {
	if !b.roles.IsAdmin(caller) {
		return dErrors.New(dErrors.CodeUnauthorized, "only the administrator may unblacklist")
	}
	if err := b.store.Remove(ctx, entity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove blacklist entry")
	}
	b.audit.Emit(ctx, audit.Event{
		Epoch:   now,
		Actor:   caller,
		Action:  audit.ActionEntityUnblacklist,
		Subject: entity.String(),
	})
	return nil
}

// IsBlacklisted reports presence on the deny-list.
func (b *Blacklist) IsBlacklisted(ctx context.Context, entity domain.Principal) (bool, error) {
	entry, err := b.store.Find(ctx, entity)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query blacklist")
	}
	return entry != nil, nil
}

// EntryOf returns the stored entry; nil when the entity is not listed.
func (b *Blacklist) EntryOf(ctx context.Context, entity domain.Principal) (*BlacklistEntry, error) {
	entry, err := b.store.Find(ctx, entity)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to query blacklist")
	}
	return entry, nil
}
