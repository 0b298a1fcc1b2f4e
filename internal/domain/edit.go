package domain

// EditKind identifies a runtime mutation
type EditKind string

const (
	EditName EditKind = "updateDomainName"
	EditVerb EditKind = "updateVerb"
)

// Edit describes one mutation so it can be dispatched, journaled and replayed.
// TargetID is only meaningful for EditVerb.
type Edit struct {
	Kind     EditKind `json:"type"`
	DomainID string   `json:"domain_id"`
	TargetID string   `json:"target_id,omitempty"`
	Value    string   `json:"value"`
}

// RenameEdit builds an EditName
func RenameEdit(domainID, name string) Edit {
	return Edit{Kind: EditName, DomainID: domainID, Value: name}
}

// VerbEdit builds an EditVerb
func VerbEdit(sourceID, targetID, verb string) Edit {
	return Edit{Kind: EditVerb, DomainID: sourceID, TargetID: targetID, Value: verb}
}

// Valid reports whether the edit kind is known
func (e Edit) Valid() bool {
	return e.Kind == EditName || e.Kind == EditVerb
}
