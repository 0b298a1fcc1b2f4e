package domain

// Fragment is the flattened graph used for import/export
type Fragment struct {
	Domains []Domain `json:"domains"`
	Edges   []Edge   `json:"edges"`
}

// NewFragment creates an empty fragment
func NewFragment() *Fragment {
	return &Fragment{
		Domains: make([]Domain, 0),
		Edges:   make([]Edge, 0),
	}
}

// AddDomain adds a domain to the fragment
func (f *Fragment) AddDomain(d Domain) {
	f.Domains = append(f.Domains, d)
}

// AddEdge adds an edge to the fragment
func (f *Fragment) AddEdge(e Edge) {
	f.Edges = append(f.Edges, e)
}
