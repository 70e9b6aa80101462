// Package access holds the single authorization policy consulted by every
// handler and middleware.
package access

import (
	"context"

	"tourism/internal/domain"
)

// Principal is the authenticated caller. It is built once per request by the
// auth middleware and never mutated afterwards.
type Principal struct {
	AccountID int64
	Username  string
	Role      domain.UserRole
}

func (p Principal) IsZero() bool { return p.AccountID == 0 }

type Kind string

const (
	KindPlace     Kind = "place"
	KindBooking   Kind = "booking"
	KindAccount   Kind = "account"
	KindPayment   Kind = "payment"
	KindAnalytics Kind = "analytics"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionCancel Action = "cancel"
)

// Resource identifies what is being accessed. OwnerID == 0 means the
// collection rather than a single owned record. SubjectRole is only used for
// accounts.
type Resource struct {
	Kind        Kind
	OwnerID     int64
	SubjectRole domain.UserRole
}

func Collection(kind Kind) Resource { return Resource{Kind: kind} }

func Owned(kind Kind, ownerID int64) Resource { return Resource{Kind: kind, OwnerID: ownerID} }

func Account(id int64, role domain.UserRole) Resource {
	return Resource{Kind: KindAccount, OwnerID: id, SubjectRole: role}
}

// CanAccess reports whether p may perform action on r.
func CanAccess(p Principal, r Resource, action Action) bool {
	if r.Kind == KindPlace && action == ActionRead {
		return true
	}
	if p.IsZero() {
		return false
	}

	owner := r.OwnerID != 0 && r.OwnerID == p.AccountID

	if p.Role == domain.RoleAdmin {
		// cancel is an owner action; admins override through status updates
		if r.Kind == KindBooking && action == ActionCancel {
			return owner
		}
		return true
	}

	switch r.Kind {
	case KindBooking:
		switch action {
		case ActionRead:
			return p.Role == domain.RoleCoWorker || owner
		case ActionCreate:
			return p.Role == domain.RoleTourist && r.OwnerID == 0
		case ActionCancel:
			return owner
		}
	case KindAccount:
		switch action {
		case ActionRead:
			if owner {
				return true
			}
			return p.Role == domain.RoleCoWorker && (r.OwnerID == 0 || r.SubjectRole == domain.RoleTourist)
		case ActionUpdate:
			return owner
		}
	}
	return false
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
