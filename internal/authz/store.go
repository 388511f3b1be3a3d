package authz

import (
	"context"

	"fairchain/pkg/domain"
)

// Store persists role membership. Grants are idempotent: granting an
// existing membership is a no-op success.
type Store interface {
	Grant(ctx context.Context, role Role, principal domain.Principal) error
	Has(ctx context.Context, role Role, principal domain.Principal) (bool, error)
}
