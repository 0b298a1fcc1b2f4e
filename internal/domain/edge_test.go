package domain

import (
	"testing"
)

func TestNewLink(t *testing.T) {
	t.Run("keeps verb", func(t *testing.T) {
		l := NewLink("gem", "settings to")
		if l.TargetID != "gem" || l.Verb != "settings to" {
			t.Errorf("unexpected link %+v", l)
		}
	})

	t.Run("empty verb defaults", func(t *testing.T) {
		l := NewLink("gem", "")
		if l.Verb != DefaultVerb {
			t.Errorf("expected %q, got %q", DefaultVerb, l.Verb)
		}
	})
}

func TestEdgeGenerateID(t *testing.T) {
	t.Run("generates consistent ID", func(t *testing.T) {
		e1 := NewEdge("squad", "nteams", "applies to", 0)
		e2 := NewEdge("squad", "nteams", "forms", 0)

		if e1.ID != e2.ID {
			t.Error("expected ID to depend on endpoints only")
		}
	})

	t.Run("direction matters", func(t *testing.T) {
		e1 := NewEdge("squad", "nteams", "", 0)
		e2 := NewEdge("nteams", "squad", "", 0)

		if e1.ID == e2.ID {
			t.Error("expected reversed endpoints to generate different IDs")
		}
	})

	t.Run("parallel links get distinct IDs", func(t *testing.T) {
		e1 := NewEdge("squad", "nteams", "", 0)
		e2 := NewEdge("squad", "nteams", "", 1)

		if e1.ID == e2.ID {
			t.Error("expected ordinal to distinguish parallel links")
		}
	})

	t.Run("ID is 16 hex chars", func(t *testing.T) {
		e := NewEdge("a", "b", "", 0)
		if len(e.ID) != 16 {
			t.Errorf("expected 16 char ID, got %d", len(e.ID))
		}
	})
}

func TestReferenceString(t *testing.T) {
	r := Reference{DomainID: "squad", Kind: ReferenceLink, TargetID: "ghost"}
	if got := r.String(); got != "squad link -> ghost" {
		t.Errorf("unexpected string %q", got)
	}
}

func TestEditValid(t *testing.T) {
	if !RenameEdit("squad", "X").Valid() {
		t.Error("expected rename edit to be valid")
	}
	if !VerbEdit("program", "portfolio", "drives").Valid() {
		t.Error("expected verb edit to be valid")
	}
	if (Edit{Kind: "delete"}).Valid() {
		t.Error("expected unknown kind to be invalid")
	}
}
