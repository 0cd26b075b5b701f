package authz

// PermissionSet is a read-only membership view over permission strings
// (e.g. "cases.view_case"). Order and duplicates in the source list are
// irrelevant.
type PermissionSet struct {
	perms map[string]struct{}
}

// NewPermissionSet builds a PermissionSet from a list of permission
// strings. Pure: the input slice is not retained.
func NewPermissionSet(perms []string) PermissionSet {
	m := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return PermissionSet{perms: m}
}

// Contains reports whether the set holds the given permission.
func (s PermissionSet) Contains(perm string) bool {
	_, ok := s.perms[perm]
	return ok
}

// HasAny reports whether the set holds at least one of the required
// permissions. An empty requirement is vacuously false: an "any-of-zero"
// requirement cannot be satisfied.
func (s PermissionSet) HasAny(required ...string) bool {
	for _, p := range required {
		if s.Contains(p) {
			return true
		}
	}
	return false
}

// HasAll reports whether the set holds every required permission. An empty
// requirement is vacuously true, which is what "visible to all
// authenticated users" checks rely on.
func (s PermissionSet) HasAll(required ...string) bool {
	for _, p := range required {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct permissions in the set.
func (s PermissionSet) Len() int {
	return len(s.perms)
}
