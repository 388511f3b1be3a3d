package audit

import "fairchain/pkg/domain"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Epoch   domain.Epoch     `json:"epoch"`
	Actor   domain.Principal `json:"actor"`
	Action  string           `json:"action"`
	Subject string           `json:"subject"`
	Detail  string           `json:"detail,omitempty"`
}

// Actions emitted by the registries. One constant per accepted mutation.
const (
	ActionVesselRegistered   = "vessel_registered"
	ActionVesselActivity     = "vessel_activity_changed"
	ActionQuotaAllocated     = "quota_allocated"
	ActionCatchReported      = "catch_reported"
	ActionCatchVerified      = "catch_verified"
	ActionCatchCertified     = "catch_certified"
	ActionEntityBlacklisted  = "entity_blacklisted"
	ActionEntityUnblacklist  = "entity_unblacklisted"
	ActionRoleGranted        = "role_granted"
)
