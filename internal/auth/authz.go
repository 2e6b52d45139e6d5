package auth

import (
	"event-reservation/internal/model"

	"github.com/google/uuid"
)

// Operation names an action guarded by CanPerform.
type Operation string

const (
	OpEventCreate  Operation = "event.create"
	OpEventUpdate  Operation = "event.update"
	OpEventCancel  Operation = "event.cancel"
	OpEventListAll Operation = "event.list_all"
	OpEventGetAny  Operation = "event.get_any"
	OpEventStats   Operation = "event.stats"

	OpReservationCreate      Operation = "reservation.create"
	OpReservationListMine    Operation = "reservation.list_mine"
	OpReservationListAll     Operation = "reservation.list_all"
	OpReservationListByEvent Operation = "reservation.list_by_event"
	OpReservationConfirm     Operation = "reservation.confirm"
	OpReservationRefuse      Operation = "reservation.refuse"
	OpReservationAdminCancel Operation = "reservation.admin_cancel"
	OpReservationCancelOwn   Operation = "reservation.cancel_own"
	OpReservationTicket      Operation = "reservation.ticket"
	OpReservationStats       Operation = "reservation.stats"
)

type rule int

const (
	ruleAdmin rule = iota + 1
	ruleAuthenticated
	ruleOwner
	ruleOwnerOrAdmin
)

var rules = map[Operation]rule{
	OpEventCreate:  ruleAdmin,
	OpEventUpdate:  ruleAdmin,
	OpEventCancel:  ruleAdmin,
	OpEventListAll: ruleAdmin,
	OpEventGetAny:  ruleAdmin,
	OpEventStats:   ruleAdmin,

	OpReservationCreate:      ruleAuthenticated,
	OpReservationListMine:    ruleAuthenticated,
	OpReservationListAll:     ruleAdmin,
	OpReservationListByEvent: ruleAdmin,
	OpReservationConfirm:     ruleAdmin,
	OpReservationRefuse:      ruleAdmin,
	OpReservationAdminCancel: ruleAdmin,
	OpReservationCancelOwn:   ruleOwner,
	OpReservationTicket:      ruleOwnerOrAdmin,
	OpReservationStats:       ruleAdmin,
}

// Resource carries the ownership facts some operations depend on.
type Resource struct {
	OwnerID uuid.UUID
}

func OwnedBy(ownerID uuid.UUID) *Resource {
	return &Resource{OwnerID: ownerID}
}

// CanPerform is the single authorization predicate. Owner rules need a
// resource; without one they are denied.
func CanPerform(p Principal, op Operation, res *Resource) bool {
	if !p.IsAuthenticated() {
		return false
	}
	r, ok := rules[op]
	if !ok {
		return false
	}

	switch r {
	case ruleAdmin:
		return p.Role == model.RoleAdmin
	case ruleAuthenticated:
		return true
	case ruleOwner:
		return res != nil && res.OwnerID == p.UserID
	case ruleOwnerOrAdmin:
		return p.Role == model.RoleAdmin || (res != nil && res.OwnerID == p.UserID)
	}
	return false
}

// RequiresOwnership reports whether op is decided per resource.
func RequiresOwnership(op Operation) bool {
	r := rules[op]
	return r == ruleOwner || r == ruleOwnerOrAdmin
}
