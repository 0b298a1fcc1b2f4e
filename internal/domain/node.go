package domain

import "strings"

// MainTypeMarker marks the type of top-level domains
const MainTypeMarker = "Principal"

// Domain represents one organizational concept in the graph
type Domain struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type,omitempty"`
	Position    Position `json:"position"`
	Color       string   `json:"color,omitempty"`
	Size        float64  `json:"size,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Links       []Link   `json:"links"`
	SubDomains  []string `json:"sub_domains,omitempty"`

	// Presentation extras, carried through untouched
	Details []Detail `json:"details,omitempty"`
	Texture *Texture `json:"texture,omitempty"`
}

// Detail is one titled paragraph of a domain's detailed information
type Detail struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Texture describes how the front-end should paint a domain
type Texture struct {
	Surface    string `json:"surface,omitempty"`
	Atmosphere string `json:"atmosphere,omitempty"`
	Color      string `json:"color,omitempty"`
}

// NewDomain creates a domain with an empty link list
func NewDomain(id, name string) *Domain {
	return &Domain{
		ID:    id,
		Name:  name,
		Links: make([]Link, 0),
	}
}

// AddLink appends an outgoing link. An empty verb becomes DefaultVerb.
func (d *Domain) AddLink(targetID, verb string) {
	d.Links = append(d.Links, NewLink(targetID, verb))
}

// IsMain reports whether the domain is a top-level domain
func (d *Domain) IsMain() bool {
	return strings.Contains(d.Type, MainTypeMarker)
}

// HasParent reports whether the domain declares a parent
func (d *Domain) HasParent() bool {
	return d.ParentID != ""
}

// LinkTo returns the first link targeting targetID
func (d *Domain) LinkTo(targetID string) (Link, bool) {
	for _, l := range d.Links {
		if l.TargetID == targetID {
			return l, true
		}
	}
	return Link{}, false
}

// Clone returns a deep copy so callers never share slices with the graph
func (d *Domain) Clone() Domain {
	c := *d
	c.Links = make([]Link, len(d.Links))
	copy(c.Links, d.Links)
	if d.SubDomains != nil {
		c.SubDomains = append([]string(nil), d.SubDomains...)
	}
	if d.Details != nil {
		c.Details = append([]Detail(nil), d.Details...)
	}
	if d.Texture != nil {
		t := *d.Texture
		c.Texture = &t
	}
	return c
}
