// Package authz is the authorization directory: named role sets plus the
// single administrator identity, consulted by every role-gated operation.
package authz

// Role names a permission set whose membership gates specific mutations.
type Role string

const (
	// RoleVerifier may confirm reported catches.
	RoleVerifier Role = "verifier"
	// RoleCertifier may certify verified catches for market.
	RoleCertifier Role = "certifier"
)
