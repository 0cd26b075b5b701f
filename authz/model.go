package authz

// Model pairs a permission set with a hierarchy rank. It is the
// authorization view the session manager derives from the current user and
// replaces wholesale on every identity change.
type Model struct {
	set  PermissionSet
	rank int
}

// NewModel builds a Model from a permission list and a hierarchy rank.
func NewModel(perms []string, rank int) *Model {
	return &Model{set: NewPermissionSet(perms), rank: rank}
}

// AnonymousModel returns the model for an unauthenticated user: no
// permissions, rank zero.
func AnonymousModel() *Model {
	return &Model{set: NewPermissionSet(nil)}
}

// Set returns the underlying permission set.
func (m *Model) Set() PermissionSet {
	if m == nil {
		return NewPermissionSet(nil)
	}
	return m.set
}

// Rank returns the hierarchy rank.
func (m *Model) Rank() int {
	if m == nil {
		return 0
	}
	return m.rank
}

// HasAny reports whether at least one required permission is held.
// Vacuously false for an empty requirement, for any user including an
// anonymous one.
func (m *Model) HasAny(required ...string) bool {
	return m.Set().HasAny(required...)
}

// HasAll reports whether every required permission is held. Vacuously true
// for an empty requirement.
func (m *Model) HasAll(required ...string) bool {
	return m.Set().HasAll(required...)
}

// MeetsRank reports whether the rank is at least the given minimum.
func (m *Model) MeetsRank(minimum int) bool {
	return m.Rank() >= minimum
}
