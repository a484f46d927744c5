package models

type Role string

const (
	RoleRenter      Role = "renter"
	RoleDealer      Role = "dealer"
	RolePrivateHost Role = "private_host"
	RoleAdmin       Role = "admin"
	RolePrimeAdmin  Role = "prime_admin"
	RoleSuperAdmin  Role = "super_admin"
)

// roleRank orders roles by authority. private_host is absent on purpose:
// it must be normalized to dealer before any workflow decision.
var roleRank = map[Role]int{
	RoleRenter:     1,
	RoleDealer:     1,
	RoleAdmin:      2,
	RolePrimeAdmin: 3,
	RoleSuperAdmin: 4,
}

// Normalize maps private_host to dealer. Applied once at the auth boundary;
// workflow code never sees private_host.
func (r Role) Normalize() Role {
	if r == RolePrivateHost {
		return RoleDealer
	}
	return r
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r.Normalize()]
	return ok
}

// AtLeast reports whether r carries at least the authority of other.
// Renter and dealer share the lowest rank; admin tiers stack above them.
func (r Role) AtLeast(other Role) bool {
	rr, ok := roleRank[r.Normalize()]
	or, ok2 := roleRank[other.Normalize()]
	return ok && ok2 && rr >= or
}

func (r Role) In(roles ...Role) bool {
	n := r.Normalize()
	for _, candidate := range roles {
		if n == candidate.Normalize() {
			return true
		}
	}
	return false
}

// IsAdminTier reports whether the role may act on cases with admin authority.
func (r Role) IsAdminTier() bool {
	return r.AtLeast(RoleAdmin)
}

// CanOverride reports whether the role may move a case out of a terminal state.
func (r Role) CanOverride() bool {
	return r.AtLeast(RolePrimeAdmin)
}

func (r Role) IsParty() bool {
	return r.In(RoleRenter, RoleDealer)
}
