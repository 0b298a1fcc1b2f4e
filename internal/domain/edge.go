package domain

import (
	"crypto/sha256"
	"fmt"
)

// DefaultVerb labels links declared without a verb
const DefaultVerb = "connected to"

// Link is an outgoing, verb-labelled edge stored on its source domain
type Link struct {
	TargetID string `json:"target_id"`
	Verb     string `json:"verb"`
}

// NewLink creates a link, substituting DefaultVerb for an empty verb
func NewLink(targetID, verb string) Link {
	if verb == "" {
		verb = DefaultVerb
	}
	return Link{TargetID: targetID, Verb: verb}
}

// Edge is a link resolved against its source, used for export and scene views
type Edge struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Verb     string `json:"verb"`
}

// NewEdge creates an edge for the ordinal-th link between source and target
func NewEdge(sourceID, targetID, verb string, ordinal int) Edge {
	e := Edge{
		SourceID: sourceID,
		TargetID: targetID,
		Verb:     verb,
	}
	e.ID = e.GenerateID(ordinal)
	return e
}

// GenerateID creates a deterministic ID from the directed endpoints.
// ordinal distinguishes parallel links between the same pair.
func (e *Edge) GenerateID(ordinal int) string {
	key := fmt.Sprintf("%s->%s#%d", e.SourceID, e.TargetID, ordinal)
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", hash[:8])
}

// Relation pairs a neighbouring domain with the verb that connects it
type Relation struct {
	Domain Domain `json:"domain"`
	Verb   string `json:"verb"`
}

// ReferenceKind names the field holding an unresolved reference
type ReferenceKind string

const (
	ReferenceLink   ReferenceKind = "link"
	ReferenceParent ReferenceKind = "parent"
)

// Reference is a dangling id found at load time
type Reference struct {
	DomainID string        `json:"domain_id"`
	Kind     ReferenceKind `json:"kind"`
	TargetID string        `json:"target_id"`
}

func (r Reference) String() string {
	return fmt.Sprintf("%s %s -> %s", r.DomainID, r.Kind, r.TargetID)
}
