package authz

import "testing"

func TestPermissionSetMembership(t *testing.T) {
	set := NewPermissionSet([]string{"cases.view", "cases.add", "cases.view"})

	if !set.Contains("cases.view") {
		t.Error("Contains(cases.view) = false")
	}
	if set.Contains("evidence.view") {
		t.Error("Contains(evidence.view) = true")
	}
	if set.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (duplicates collapsed)", set.Len())
	}
}

func TestPermissionSetVacuousCases(t *testing.T) {
	tests := []struct {
		name  string
		perms []string
	}{
		{"populated", []string{"cases.view"}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewPermissionSet(tt.perms)
			if set.HasAny() {
				t.Error("HasAny() with no requirement = true, want false")
			}
			if !set.HasAll() {
				t.Error("HasAll() with no requirement = false, want true")
			}
		})
	}
}

func TestPermissionSetHasAny(t *testing.T) {
	set := NewPermissionSet([]string{"cases.view", "cases.add"})

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"one held", []string{"cases.view"}, true},
		{"one of several held", []string{"evidence.view", "cases.add"}, true},
		{"none held", []string{"evidence.view", "suspects.view"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.HasAny(tt.required...); got != tt.want {
				t.Errorf("HasAny(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestPermissionSetHasAll(t *testing.T) {
	set := NewPermissionSet([]string{"cases.view", "cases.add"})

	tests := []struct {
		name     string
		required []string
		want     bool
	}{
		{"all held", []string{"cases.view", "cases.add"}, true},
		{"one missing", []string{"cases.view", "evidence.view"}, false},
		{"single held", []string{"cases.add"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := set.HasAll(tt.required...); got != tt.want {
				t.Errorf("HasAll(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestModelRankGating(t *testing.T) {
	model := NewModel([]string{"cases.view", "cases.add"}, 5)

	if !model.HasAll("cases.view", "cases.add") {
		t.Error("HasAll(cases.view, cases.add) = false, want true")
	}
	if model.HasAny("evidence.view") {
		t.Error("HasAny(evidence.view) = true, want false")
	}
	if model.MeetsRank(6) {
		t.Error("MeetsRank(6) = true for rank 5")
	}
	if !model.MeetsRank(5) {
		t.Error("MeetsRank(5) = false for rank 5")
	}
	if !model.MeetsRank(0) {
		t.Error("MeetsRank(0) = false for rank 5")
	}
}

func TestAnonymousModel(t *testing.T) {
	model := AnonymousModel()

	if model.HasAny("cases.view") {
		t.Error("anonymous HasAny(cases.view) = true")
	}
	if !model.HasAll() {
		t.Error("anonymous HasAll() = false, want vacuous true")
	}
	if model.HasAny() {
		t.Error("anonymous HasAny() = true, want vacuous false")
	}
	if model.MeetsRank(1) {
		t.Error("anonymous MeetsRank(1) = true")
	}
	if !model.MeetsRank(0) {
		t.Error("anonymous MeetsRank(0) = false")
	}
}

func TestNilModelBehavesAnonymous(t *testing.T) {
	var model *Model

	if model.HasAny("cases.view") {
		t.Error("nil model HasAny = true")
	}
	if !model.HasAll() {
		t.Error("nil model HasAll() = false")
	}
	if model.MeetsRank(1) {
		t.Error("nil model MeetsRank(1) = true")
	}
}
