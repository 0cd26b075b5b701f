// Package authz derives swappable, read-only authorization views from the
// current user: a set of namespaced permission strings with O(1) membership,
// and a numeric hierarchy rank for coarse-grained gating.
//
// Values are immutable once built. The session manager replaces the whole
// Model on every identity change rather than mutating it, so a caller
// holding an old Model sees a consistent (if stale) view, never a partial
// one.
package authz
