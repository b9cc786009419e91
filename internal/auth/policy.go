package auth

// Action distinguishes read access from mutating access.
type Action int

const (
	// ActionRead covers GET-style access to a resource.
	ActionRead Action = iota
	// ActionWrite covers create/update/delete access.
	ActionWrite
)

// DenyReason explains why a decision denied access.
type DenyReason int

const (
	// DenyNone means the decision allowed access.
	DenyNone DenyReason = iota
	// DenyUnauthorized means the caller must authenticate (write without a
	// principal). It surfaces as 401.
	DenyUnauthorized
	// DenyAccess means the caller is known (or anonymity is irrelevant) but
	// not permitted. It surfaces as 403 and must never prompt a login, so
	// anonymous reads of private resources use this reason, not
	// DenyUnauthorized.
	DenyAccess
)

// Decision is the outcome of a policy evaluation.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

var allow = Decision{Allowed: true}

func deny(r DenyReason) Decision { return Decision{Reason: r} }

// Resource is the minimal view of a record the policy needs: who owns it and
// whether it is world-readable. Conversations never set IsPublic.
type Resource struct {
	OwnerID  string
	IsPublic bool
}

// Decide evaluates whether principal may perform action on resource.
//
// Rules, in order:
//   - Write: anonymous → DenyUnauthorized; non-owner → DenyAccess; owner → allow.
//   - Read: public resources are readable by anyone, authenticated or not;
//     otherwise anonymous and non-owner callers get DenyAccess.
//
// The policy is agnostic to whether an absent record means "not found" or
// "hidden"; that distinction belongs to the service layer, which decides what
// to load before asking.
func Decide(resource Resource, principal *Principal, action Action) Decision {
	if action == ActionWrite {
		if principal == nil {
			return deny(DenyUnauthorized)
		}
		if principal.ID != resource.OwnerID {
			return deny(DenyAccess)
		}
		return allow
	}

	// Read
	if resource.IsPublic {
		return allow
	}
	if principal == nil || principal.ID != resource.OwnerID {
		return deny(DenyAccess)
	}
	return allow
}
