// Package authz is the explicit allow-list gate in front of every
// mutating operation. Identity resolution happens upstream; this layer
// only checks the already-resolved (actor, role) pair against the
// operation's permitted roles. The role policy itself belongs to the
// authorization collaborator and is injected, never hardcoded at call
// sites.
package authz

import "pit-custody/internal/custody"

type Role string

const (
	RolePitClerk        Role = "pit_clerk"
	RolePitBoss         Role = "pit_boss"
	RoleShiftSupervisor Role = "shift_supervisor"
	RoleAuditor         Role = "auditor"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RolePitClerk, RolePitBoss, RoleShiftSupervisor, RoleAuditor:
		return Role(s), true
	}
	return "", false
}

// Actor is the authenticated staff member on whose behalf a call runs.
// It is threaded as an explicit parameter through every service call;
// there is no ambient actor state anywhere in the service.
type Actor struct {
	ID   string
	Role Role
}

type Operation string

const (
	OpOpenSession       Operation = "openSession"
	OpAdvanceSession    Operation = "advanceSession"
	OpCloseSession      Operation = "closeSession"
	OpApplyFill         Operation = "applyFill"
	OpApplyCredit       Operation = "applyCredit"
	OpPostDrop          Operation = "postDrop"
	OpPersistRundown    Operation = "persistRundown"
	OpFinalizeRundown   Operation = "finalizeRundown"
	OpCaptureCheckpoint Operation = "captureCheckpoint"
)

type Policy map[Operation][]Role

// DefaultPolicy mirrors the floor hierarchy: clerks post money and run
// the session lifecycle, bosses additionally close and persist
// rundowns, supervisors seal reports and take checkpoints. Auditors
// never mutate.
func DefaultPolicy() Policy {
	return Policy{
		OpOpenSession:       {RolePitClerk, RolePitBoss, RoleShiftSupervisor},
		OpAdvanceSession:    {RolePitClerk, RolePitBoss, RoleShiftSupervisor},
		OpCloseSession:      {RolePitBoss, RoleShiftSupervisor},
		OpApplyFill:         {RolePitClerk, RolePitBoss, RoleShiftSupervisor},
		OpApplyCredit:       {RolePitClerk, RolePitBoss, RoleShiftSupervisor},
		OpPostDrop:          {RolePitClerk, RolePitBoss, RoleShiftSupervisor},
		OpPersistRundown:    {RolePitBoss, RoleShiftSupervisor},
		OpFinalizeRundown:   {RoleShiftSupervisor},
		OpCaptureCheckpoint: {RoleShiftSupervisor},
	}
}

func (p Policy) Require(op Operation, actor Actor) error {
	if actor.ID == "" {
		return custody.ErrForbidden
	}
	for _, role := range p[op] {
		if actor.Role == role {
			return nil
		}
	}
	return custody.ErrForbidden
}
