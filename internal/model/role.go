package model

// Role is the closed set of user roles. A store owner is never created
// directly; the role is assigned as a side effect of store creation.
type Role string

const (
	// RoleAdmin manages users and stores.
	RoleAdmin Role = "admin"
	// RoleUser is a normal user who browses stores and submits ratings.
	RoleUser Role = "user"
	// RoleStoreOwner owns a store and views its dashboard.
	RoleStoreOwner Role = "store_owner"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleStoreOwner:
		return true
	}
	return false
}

// Assignable reports whether an administrator may assign r when creating a
// user. store_owner is excluded: that role is minted only by store creation.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleUser
}
