package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"domainverse/internal/codec"
	"domainverse/internal/domain"
	"domainverse/internal/logger"
	"domainverse/internal/metrics"
	"domainverse/internal/repository"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidFormat = errors.New("invalid format")
	ErrInvalidEdit   = errors.New("invalid edit")
)

// Options configures a DomainService
type Options struct {
	// Journal records successful edits. Nil disables journaling.
	Journal repository.EditJournal
	// CacheSize bounds the related-domain cache. Zero disables it.
	CacheSize int
	// Metrics defaults to metrics.DefaultRegistry()
	Metrics *metrics.Registry
}

// DomainService provides the query and edit operations over the domain graph
type DomainService struct {
	graph    *domain.Graph
	journal  repository.EditJournal
	eventBus *EventBus
	metrics  *metrics.Registry

	// related caches closure ids. The link structure never changes after
	// load, so entries never go stale; names are resolved on every call.
	related *lru.Cache[string, []string]
}

// NewDomainService creates a new domain service
func NewDomainService(graph *domain.Graph, eventBus *EventBus, opts Options) (*DomainService, error) {
	s := &DomainService{
		graph:    graph,
		journal:  opts.Journal,
		eventBus: eventBus,
		metrics:  opts.Metrics,
	}
	if s.metrics == nil {
		s.metrics = metrics.DefaultRegistry()
	}
	if opts.CacheSize > 0 {
		cache, err := lru.New[string, []string](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("create related cache: %w", err)
		}
		s.related = cache
	}

	s.metrics.SetCatalog(graph.Len(), len(graph.DanglingReferences()))
	return s, nil
}

// Graph returns the underlying graph
func (s *DomainService) Graph() *domain.Graph {
	return s.graph
}

// Get returns a single domain
func (s *DomainService) Get(ctx context.Context, id string) (domain.Domain, error) {
	start := time.Now()
	d, ok := s.graph.Get(id)
	if !ok {
		s.observe("get", metrics.StatusNotFound, start)
		return domain.Domain{}, notFound(id)
	}
	s.observe("get", metrics.StatusSuccess, start)
	return d, nil
}

// Linked returns the domains id links to
func (s *DomainService) Linked(ctx context.Context, id string) ([]domain.Domain, error) {
	return query(s, "linked", id, s.graph.LinkedDomains)
}

// Children returns the sub-domains of id
func (s *DomainService) Children(ctx context.Context, id string) ([]domain.Domain, error) {
	return query(s, "children", id, s.graph.ChildDomains)
}

// Incoming returns the domains linking to id with their verbs
func (s *DomainService) Incoming(ctx context.Context, id string) ([]domain.Relation, error) {
	return query(s, "incoming", id, s.graph.IncomingLinks)
}

// Outgoing returns the domains id links to with their verbs
func (s *DomainService) Outgoing(ctx context.Context, id string) ([]domain.Relation, error) {
	return query(s, "outgoing", id, s.graph.OutgoingLinks)
}

// Related returns the closure of id over children, outgoing and incoming links
func (s *DomainService) Related(ctx context.Context, id string) ([]domain.Domain, error) {
	ids, err := s.RelatedIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.resolve(ids), nil
}

// RelatedIDs returns the closure ids of id, from the cache when possible
func (s *DomainService) RelatedIDs(ctx context.Context, id string) ([]string, error) {
	start := time.Now()

	if s.related != nil {
		if ids, ok := s.related.Get(id); ok {
			s.metrics.RecordCache(true)
			s.observe("related", metrics.StatusSuccess, start)
			return append([]string(nil), ids...), nil
		}
		s.metrics.RecordCache(false)
	}

	ids := s.graph.RelatedIDs(id)
	if len(ids) == 0 {
		s.observe("related", metrics.StatusNotFound, start)
		return nil, notFound(id)
	}

	if s.related != nil {
		s.related.Add(id, append([]string(nil), ids...))
	}
	s.observe("related", metrics.StatusSuccess, start)
	logger.Debug(ctx, "related domains computed", zap.String("domain_id", id), zap.Int("count", len(ids)))
	return ids, nil
}

// Search matches domains by name, id or child name
func (s *DomainService) Search(ctx context.Context, term string) []domain.Domain {
	start := time.Now()
	result := s.graph.Search(term)
	s.observe("search", metrics.StatusSuccess, start)
	return result
}

// Main returns the top-level domains
func (s *DomainService) Main(ctx context.Context) []domain.Domain {
	return s.graph.MainDomains()
}

// All returns every domain in catalog order
func (s *DomainService) All(ctx context.Context) []domain.Domain {
	return s.graph.All()
}

// DanglingReferences reports catalog references that do not resolve
func (s *DomainService) DanglingReferences(ctx context.Context) []domain.Reference {
	return s.graph.DanglingReferences()
}

// Rename changes the display name of a domain. Any text is accepted.
func (s *DomainService) Rename(ctx context.Context, id, name string) error {
	return s.Apply(ctx, domain.RenameEdit(id, name))
}

// UpdateVerb relabels the first link from sourceID to targetID
func (s *DomainService) UpdateVerb(ctx context.Context, sourceID, targetID, verb string) error {
	return s.Apply(ctx, domain.VerbEdit(sourceID, targetID, verb))
}

// Apply performs an edit, journals it and publishes the matching event
func (s *DomainService) Apply(ctx context.Context, edit domain.Edit) error {
	if !edit.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidEdit, edit.Kind)
	}

	if !s.graph.Apply(edit) {
		s.metrics.RecordEdit(string(edit.Kind), metrics.StatusNotFound)
		if edit.Kind == domain.EditVerb {
			return fmt.Errorf("link %s -> %s: %w", edit.DomainID, edit.TargetID, ErrNotFound)
		}
		return notFound(edit.DomainID)
	}
	s.metrics.RecordEdit(string(edit.Kind), metrics.StatusSuccess)

	// the edit is already visible; a journal failure only costs durability
	if s.journal != nil {
		if err := s.journal.RecordEdit(ctx, edit); err != nil {
			logger.Error(ctx, "failed to journal edit",
				zap.String("kind", string(edit.Kind)),
				zap.String("domain_id", edit.DomainID),
				zap.Error(err),
			)
		}
	}

	switch edit.Kind {
	case domain.EditName:
		s.eventBus.Publish(Event{
			Type:    EventDomainRenamed,
			Payload: RenamedPayload{DomainID: edit.DomainID, Name: edit.Value},
		})
	case domain.EditVerb:
		s.eventBus.Publish(Event{
			Type:    EventVerbUpdated,
			Payload: VerbPayload{SourceID: edit.DomainID, TargetID: edit.TargetID, Verb: edit.Value},
		})
	}

	logger.Info(ctx, "domain edited",
		zap.String("kind", string(edit.Kind)),
		zap.String("domain_id", edit.DomainID),
		zap.String("target_id", edit.TargetID),
	)
	return nil
}

// ReplayJournal re-applies journaled edits to the graph
func (s *DomainService) ReplayJournal(ctx context.Context) (repository.ReplayResult, error) {
	if s.journal == nil {
		return repository.ReplayResult{}, nil
	}

	result, err := repository.Replay(ctx, s.journal, s.graph)
	if err != nil {
		return result, fmt.Errorf("replay journal: %w", err)
	}
	if result.Applied > 0 || result.Skipped > 0 {
		s.eventBus.Publish(Event{Type: EventEditsReplayed, Payload: result})
	}
	return result, nil
}

// History returns the journaled edits, empty when journaling is disabled
func (s *DomainService) History(ctx context.Context) ([]repository.JournalEntry, error) {
	if s.journal == nil {
		return make([]repository.JournalEntry, 0), nil
	}
	return s.journal.ListEdits(ctx)
}

// Export writes the current graph state in the given format
func (s *DomainService) Export(ctx context.Context, format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, format)
	}
	return s.ExportWith(ctx, c, w)
}

// ExportWith writes the current graph state with a specific exporter
func (s *DomainService) ExportWith(ctx context.Context, exporter codec.Exporter, w io.Writer) error {
	if err := exporter.Export(s.graph.Fragment(), w); err != nil {
		return fmt.Errorf("export %s: %w", exporter.Format(), err)
	}
	return nil
}

// query runs a per-domain graph query, turning an unknown id into ErrNotFound
func query[T any](s *DomainService, operation, id string, fn func(string) []T) ([]T, error) {
	start := time.Now()
	if !s.graph.Has(id) {
		s.observe(operation, metrics.StatusNotFound, start)
		return nil, notFound(id)
	}
	result := fn(id)
	s.observe(operation, metrics.StatusSuccess, start)
	return result, nil
}

func (s *DomainService) resolve(ids []string) []domain.Domain {
	result := make([]domain.Domain, 0, len(ids))
	for _, id := range ids {
		if d, ok := s.graph.Get(id); ok {
			result = append(result, d)
		}
	}
	return result
}

func (s *DomainService) observe(operation, status string, start time.Time) {
	s.metrics.RecordQuery(operation, status, time.Since(start))
}

func notFound(id string) error {
	return fmt.Errorf("domain %s: %w", id, ErrNotFound)
}
