package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	ErrEmptyID     = errors.New("domain id required")
	ErrDuplicateID = errors.New("duplicate domain id")
)

// Graph is the in-memory domain graph.
//
// children and incoming are built once by NewGraph. They never need rebuilding
// because only names and verbs change after construction.
type Graph struct {
	mu       sync.RWMutex
	byID     map[string]*Domain
	order    []string
	children map[string][]string // parent id -> child ids, node-set order
	incoming map[string][]string // target id -> source ids, node-set order, deduplicated
}

// NewGraph builds a graph from catalog records. Records keep their order.
// Empty link verbs become DefaultVerb. Dangling references are accepted.
func NewGraph(domains []Domain) (*Graph, error) {
	g := &Graph{
		byID:     make(map[string]*Domain, len(domains)),
		order:    make([]string, 0, len(domains)),
		children: make(map[string][]string),
		incoming: make(map[string][]string),
	}

	for i := range domains {
		d := domains[i].Clone()
		if d.ID == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrEmptyID)
		}
		if _, exists := g.byID[d.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, d.ID)
		}
		for j := range d.Links {
			if d.Links[j].Verb == "" {
				d.Links[j].Verb = DefaultVerb
			}
		}
		g.byID[d.ID] = &d
		g.order = append(g.order, d.ID)
	}

	for _, id := range g.order {
		d := g.byID[id]
		if d.HasParent() {
			g.children[d.ParentID] = append(g.children[d.ParentID], id)
		}
		seen := make(map[string]struct{}, len(d.Links))
		for _, l := range d.Links {
			if _, dup := seen[l.TargetID]; dup {
				continue
			}
			seen[l.TargetID] = struct{}{}
			g.incoming[l.TargetID] = append(g.incoming[l.TargetID], id)
		}
	}

	return g, nil
}

// Len returns the number of domains
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// Get looks up a domain by exact id
func (g *Graph) Get(id string) (Domain, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.byID[id]
	if !ok {
		return Domain{}, false
	}
	return d.Clone(), true
}

// Has reports whether id resolves
func (g *Graph) Has(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.byID[id]
	return ok
}

// All returns every domain in node-set order
func (g *Graph) All() []Domain {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolve(g.order)
}

// MainDomains returns the top-level domains in node-set order
func (g *Graph) MainDomains() []Domain {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Domain, 0)
	for _, id := range g.order {
		if d := g.byID[id]; d.IsMain() {
			result = append(result, d.Clone())
		}
	}
	return result
}

// LinkedDomains resolves the outgoing links of id in link order.
// Links to unknown domains are dropped.
func (g *Graph) LinkedDomains(id string) []Domain {
	g.mu.RLock()
	defer g.mu.RUnlock()

	d, ok := g.byID[id]
	if !ok {
		return make([]Domain, 0)
	}

	result := make([]Domain, 0, len(d.Links))
	for _, l := range d.Links {
		if target, ok := g.byID[l.TargetID]; ok {
			result = append(result, target.Clone())
		}
	}
	return result
}

// ChildDomains returns every domain whose ParentID is id
func (g *Graph) ChildDomains(id string) []Domain {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolve(g.children[id])
}

// OutgoingLinks resolves the outgoing links of id with their verbs
func (g *Graph) OutgoingLinks(id string) []Relation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Relation, 0)
	d, ok := g.byID[id]
	if !ok {
		return result
	}
	for _, l := range d.Links {
		if target, ok := g.byID[l.TargetID]; ok {
			result = append(result, Relation{Domain: target.Clone(), Verb: l.Verb})
		}
	}
	return result
}

// IncomingLinks returns the domains linking to id, each with the verb of its
// first link to id
func (g *Graph) IncomingLinks(id string) []Relation {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Relation, 0)
	if _, ok := g.byID[id]; !ok {
		return result
	}
	for _, sourceID := range g.incoming[id] {
		source := g.byID[sourceID]
		link, _ := source.LinkTo(id)
		result = append(result, Relation{Domain: source.Clone(), Verb: link.Verb})
	}
	return result
}

// RelatedIDs returns the ids reachable from id through child, outgoing-link and
// incoming-link relations, in first-visit order. id itself comes first.
func (g *Graph) RelatedIDs(id string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.relatedIDs(id)
}

// RelatedDomains resolves RelatedIDs
func (g *Graph) RelatedDomains(id string) []Domain {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.resolve(g.relatedIDs(id))
}

// relatedIDs is a pre-order DFS with an explicit stack. Neighbours are pushed
// in reverse so they pop as children, then link targets, then link sources.
func (g *Graph) relatedIDs(id string) []string {
	result := make([]string, 0)
	if _, ok := g.byID[id]; !ok {
		return result
	}

	visited := make(map[string]struct{})
	stack := []string{id}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, seen := visited[cur]; seen {
			continue
		}
		visited[cur] = struct{}{}

		d, ok := g.byID[cur]
		if !ok {
			continue
		}
		result = append(result, cur)

		next := make([]string, 0, len(g.children[cur])+len(d.Links)+len(g.incoming[cur]))
		next = append(next, g.children[cur]...)
		for _, l := range d.Links {
			next = append(next, l.TargetID)
		}
		next = append(next, g.incoming[cur]...)

		for i := len(next) - 1; i >= 0; i-- {
			if _, seen := visited[next[i]]; !seen {
				stack = append(stack, next[i])
			}
		}
	}

	return result
}

// Search matches term case-insensitively against the name and id of every
// domain and the names of its children. A blank term returns the main domains.
func (g *Graph) Search(term string) []Domain {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return g.MainDomains()
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]Domain, 0)
	for _, id := range g.order {
		d := g.byID[id]
		if g.matches(d, term) {
			result = append(result, d.Clone())
		}
	}
	return result
}

func (g *Graph) matches(d *Domain, term string) bool {
	if strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.ID), term) {
		return true
	}
	for _, childID := range g.children[d.ID] {
		if strings.Contains(strings.ToLower(g.byID[childID].Name), term) {
			return true
		}
	}
	return false
}

// Connections returns the links whose source and target are both in visible.
// Edges follow the order of visible, then link order. Repeated ids are ignored.
func (g *Graph) Connections(visible []string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	set := make(map[string]struct{}, len(visible))
	sources := make([]string, 0, len(visible))
	for _, id := range visible {
		if _, dup := set[id]; dup {
			continue
		}
		set[id] = struct{}{}
		sources = append(sources, id)
	}

	edges := make([]Edge, 0)
	for _, id := range sources {
		d, ok := g.byID[id]
		if !ok {
			continue
		}
		edges = append(edges, g.edgesFrom(d, set)...)
	}
	return edges
}

// edgesFrom resolves the links of d, restricted to targets in allowed when it is non-nil
func (g *Graph) edgesFrom(d *Domain, allowed map[string]struct{}) []Edge {
	edges := make([]Edge, 0, len(d.Links))
	ordinals := make(map[string]int)
	for _, l := range d.Links {
		n := ordinals[l.TargetID]
		ordinals[l.TargetID] = n + 1

		if _, ok := g.byID[l.TargetID]; !ok {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[l.TargetID]; !ok {
				continue
			}
		}
		edges = append(edges, NewEdge(d.ID, l.TargetID, l.Verb, n))
	}
	return edges
}

// UpdateName renames a domain in place. Any text is accepted.
func (g *Graph) UpdateName(id, name string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	d, ok := g.byID[id]
	if !ok {
		return false
	}
	d.Name = name
	return true
}

// UpdateVerb relabels the first link from sourceID to targetID
func (g *Graph) UpdateVerb(sourceID, targetID, verb string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	d, ok := g.byID[sourceID]
	if !ok {
		return false
	}
	for i := range d.Links {
		if d.Links[i].TargetID == targetID {
			d.Links[i].Verb = verb
			return true
		}
	}
	return false
}

// Apply dispatches an edit to UpdateName or UpdateVerb
func (g *Graph) Apply(e Edit) bool {
	switch e.Kind {
	case EditName:
		return g.UpdateName(e.DomainID, e.Value)
	case EditVerb:
		return g.UpdateVerb(e.DomainID, e.TargetID, e.Value)
	default:
		return false
	}
}

// DanglingReferences lists link targets and parents that do not resolve
func (g *Graph) DanglingReferences() []Reference {
	g.mu.RLock()
	defer g.mu.RUnlock()

	refs := make([]Reference, 0)
	for _, id := range g.order {
		d := g.byID[id]
		if d.HasParent() {
			if _, ok := g.byID[d.ParentID]; !ok {
				refs = append(refs, Reference{DomainID: id, Kind: ReferenceParent, TargetID: d.ParentID})
			}
		}
		for _, l := range d.Links {
			if _, ok := g.byID[l.TargetID]; !ok {
				refs = append(refs, Reference{DomainID: id, Kind: ReferenceLink, TargetID: l.TargetID})
			}
		}
	}
	return refs
}

// Fragment flattens the current state for export. Dangling links are omitted
// from Edges but kept on the domains.
func (g *Graph) Fragment() *Fragment {
	g.mu.RLock()
	defer g.mu.RUnlock()

	f := NewFragment()
	for _, id := range g.order {
		d := g.byID[id]
		f.AddDomain(d.Clone())
		for _, e := range g.edgesFrom(d, nil) {
			f.AddEdge(e)
		}
	}
	return f
}

// resolve clones the domains for ids, skipping unknown ones. Caller holds mu.
func (g *Graph) resolve(ids []string) []Domain {
	result := make([]Domain, 0, len(ids))
	for _, id := range ids {
		if d, ok := g.byID[id]; ok {
			result = append(result, d.Clone())
		}
	}
	return result
}
