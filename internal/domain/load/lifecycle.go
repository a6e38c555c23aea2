package load

import (
	domainErr "github.com/JaserAkuly/EvolveTMS/internal/domain/errors"
	"github.com/JaserAkuly/EvolveTMS/internal/domain/profile"
)

// Action is a lifecycle action token. Actions are what callers request;
// the transition table below resolves them to a target status.
type Action string

const (
	ActionTender  Action = "tender"
	ActionBook    Action = "book"
	ActionDecline Action = "decline"
	ActionAdvance Action = "advance"
)

// transition is one row of the lifecycle table.
type transition struct {
	action Action
	next   Status
	roles  []profile.Role
}

// transitions is the SINGLE SOURCE OF TRUTH for the load lifecycle.
// AvailableActions, Authorize and Next all read from this table, so the
// actions offered to a client and the server-side check can never drift.
//
// created  --tender-->  tendered   (admin)
// tendered --book---->  booked     (carrier or admin)
// tendered --decline->  created    (carrier or admin)
// booked   --advance->  in_transit (admin)
// in_transit --advance-> delivered (admin)
// delivered  --advance-> closed    (admin)
var transitions = map[Status][]transition{
	StatusCreated: {
		{ActionTender, StatusTendered, []profile.Role{profile.RoleAdmin}},
	},
	StatusTendered: {
		{ActionBook, StatusBooked, []profile.Role{profile.RoleCarrier, profile.RoleAdmin}},
		{ActionDecline, StatusCreated, []profile.Role{profile.RoleCarrier, profile.RoleAdmin}},
	},
	StatusBooked: {
		{ActionAdvance, StatusInTransit, []profile.Role{profile.RoleAdmin}},
	},
	StatusInTransit: {
		{ActionAdvance, StatusDelivered, []profile.Role{profile.RoleAdmin}},
	},
	StatusDelivered: {
		{ActionAdvance, StatusClosed, []profile.Role{profile.RoleAdmin}},
	},
	// StatusClosed has no row: terminal.
}

func roleAllowed(roles []profile.Role, role profile.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// AvailableActions returns the ordered actions the given role may apply to a
// load in the given status. Pure function: empty for closed loads, for
// unknown (status, role) pairs, and for roles outside admin/carrier.
func AvailableActions(status Status, role profile.Role) []Action {
	var out []Action
	for _, t := range transitions[status] {
		if roleAllowed(t.roles, role) {
			out = append(out, t.action)
		}
	}
	return out
}

// Next resolves an action against the current status, returning the target
// status. It distinguishes an unknown token from a known action that simply
// does not apply to the current status.
func Next(status Status, action Action) (Status, error) {
	switch action {
	case ActionTender, ActionBook, ActionDecline, ActionAdvance:
	default:
		return "", domainErr.ErrUnknownAction
	}
	if status.Terminal() {
		return "", domainErr.ErrTerminalStatus
	}
	for _, t := range transitions[status] {
		if t.action == action {
			return t.next, nil
		}
	}
	return "", domainErr.ErrInvalidTransition
}

// Authorize reports whether the role may apply the action to the current
// status. This is revalidated server-side on every transition; the UI layer
// hiding a button is not an authorization boundary.
func Authorize(status Status, action Action, role profile.Role) error {
	for _, t := range transitions[status] {
		if t.action == action {
			if roleAllowed(t.roles, role) {
				return nil
			}
			return domainErr.ErrUnauthorized
		}
	}
	// Fall through to Next's error taxonomy for unknown/invalid actions.
	if _, err := Next(status, action); err != nil {
		return err
	}
	return domainErr.ErrInvalidTransition
}
