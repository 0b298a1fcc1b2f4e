package service

import (
	"context"

	"domainverse/internal/domain"
)

// Scene is the set of domains and connections a client displays
type Scene struct {
	FocusID     string          `json:"focus_id,omitempty"`
	ZoomedOut   bool            `json:"zoomed_out"`
	Domains     []domain.Domain `json:"domains"`
	Connections []domain.Edge   `json:"connections"`
	Center      domain.Position `json:"center"`
}

// SceneService composes scene views from domain queries
type SceneService struct {
	domains *DomainService
}

// NewSceneService creates a new scene service
func NewSceneService(domains *DomainService) *SceneService {
	return &SceneService{domains: domains}
}

// View returns what is visible for a focus domain.
//
// Without a focus the overview shows the main domains followed by their
// children. With a focus it shows the focus, its children and the domains it
// links to; zoomed out it shows the whole related-domain closure instead.
func (s *SceneService) View(ctx context.Context, focusID string, zoomOut bool) (*Scene, error) {
	var (
		visible []domain.Domain
		err     error
	)

	switch {
	case focusID == "":
		visible = s.overview(ctx)
	case zoomOut:
		visible, err = s.domains.Related(ctx, focusID)
	default:
		visible, err = s.focused(ctx, focusID)
	}
	if err != nil {
		return nil, err
	}

	visible = dedupe(visible)
	ids := make([]string, 0, len(visible))
	for _, d := range visible {
		ids = append(ids, d.ID)
	}

	return &Scene{
		FocusID:     focusID,
		ZoomedOut:   focusID != "" && zoomOut,
		Domains:     visible,
		Connections: s.domains.Graph().Connections(ids),
		Center:      domain.Centroid(visible),
	}, nil
}

func (s *SceneService) overview(ctx context.Context) []domain.Domain {
	main := s.domains.Main(ctx)
	visible := append(make([]domain.Domain, 0, len(main)*4), main...)
	for _, d := range main {
		visible = append(visible, s.domains.Graph().ChildDomains(d.ID)...)
	}
	return visible
}

func (s *SceneService) focused(ctx context.Context, focusID string) ([]domain.Domain, error) {
	focus, err := s.domains.Get(ctx, focusID)
	if err != nil {
		return nil, err
	}
	children, err := s.domains.Children(ctx, focusID)
	if err != nil {
		return nil, err
	}
	linked, err := s.domains.Linked(ctx, focusID)
	if err != nil {
		return nil, err
	}

	visible := make([]domain.Domain, 0, 1+len(children)+len(linked))
	visible = append(visible, focus)
	visible = append(visible, children...)
	return append(visible, linked...), nil
}

// dedupe keeps the first occurrence of every id
func dedupe(domains []domain.Domain) []domain.Domain {
	seen := make(map[string]struct{}, len(domains))
	result := domains[:0]
	for _, d := range domains {
		if _, ok := seen[d.ID]; ok {
			continue
		}
		seen[d.ID] = struct{}{}
		result = append(result, d)
	}
	return result
}
