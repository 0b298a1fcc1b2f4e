package codec

import (
	"fmt"
	"io"

	"domainverse/internal/domain"

	"gopkg.in/yaml.v3"
)

// FormatVersion is written to exported YAML documents
const FormatVersion = 1

// YAMLCodec handles the YAML catalog format
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlFragment represents the YAML structure for domain data
type yamlFragment struct {
	Version int          `yaml:"version,omitempty"`
	Domains []yamlDomain `yaml:"domains"`
	Edges   []yamlEdge   `yaml:"edges,omitempty"`
}

type yamlDomain struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Description string          `yaml:"description,omitempty"`
	Type        string          `yaml:"type,omitempty"`
	Position    domain.Position `yaml:"position,flow"`
	Color       string          `yaml:"color,omitempty"`
	Size        float64         `yaml:"size,omitempty"`
	ParentID    string          `yaml:"parent_id,omitempty"`
	Links       []yamlLink      `yaml:"links"`
	SubDomains  []string        `yaml:"sub_domains,omitempty"`
	Details     []yamlDetail    `yaml:"details,omitempty"`
	Texture     *yamlTexture    `yaml:"texture,omitempty"`
}

type yamlLink struct {
	TargetID string `yaml:"target_id"`
	Verb     string `yaml:"verb"`
}

type yamlDetail struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type yamlTexture struct {
	Surface    string `yaml:"surface,omitempty"`
	Atmosphere string `yaml:"atmosphere,omitempty"`
	Color      string `yaml:"color,omitempty"`
}

type yamlEdge struct {
	ID       string `yaml:"id,omitempty"`
	SourceID string `yaml:"source_id"`
	TargetID string `yaml:"target_id"`
	Verb     string `yaml:"verb"`
}

// Parse imports domain data from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Fragment, error) {
	var yf yamlFragment
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&yf); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	fragment := domain.NewFragment()

	for _, yd := range yf.Domains {
		fragment.AddDomain(yd.toDomain())
	}

	for i, ye := range yf.Edges {
		edge := domain.Edge{
			ID:       ye.ID,
			SourceID: ye.SourceID,
			TargetID: ye.TargetID,
			Verb:     ye.Verb,
		}
		if edge.ID == "" {
			edge.ID = edge.GenerateID(i)
		}
		fragment.AddEdge(edge)
	}

	return fragment, nil
}

// Export exports domain data to YAML
func (c *YAMLCodec) Export(fragment *domain.Fragment, w io.Writer) error {
	yf := yamlFragment{
		Version: FormatVersion,
		Domains: make([]yamlDomain, 0, len(fragment.Domains)),
		Edges:   make([]yamlEdge, 0, len(fragment.Edges)),
	}

	for _, d := range fragment.Domains {
		yf.Domains = append(yf.Domains, fromDomain(d))
	}

	for _, e := range fragment.Edges {
		yf.Edges = append(yf.Edges, yamlEdge{
			ID:       e.ID,
			SourceID: e.SourceID,
			TargetID: e.TargetID,
			Verb:     e.Verb,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&yf); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

func (yd yamlDomain) toDomain() domain.Domain {
	d := domain.Domain{
		ID:          yd.ID,
		Name:        yd.Name,
		Description: yd.Description,
		Type:        yd.Type,
		Position:    yd.Position,
		Color:       yd.Color,
		Size:        yd.Size,
		ParentID:    yd.ParentID,
		Links:       make([]domain.Link, 0, len(yd.Links)),
		SubDomains:  yd.SubDomains,
	}
	for _, l := range yd.Links {
		d.Links = append(d.Links, domain.Link{TargetID: l.TargetID, Verb: l.Verb})
	}
	for _, det := range yd.Details {
		d.Details = append(d.Details, domain.Detail{Title: det.Title, Description: det.Description})
	}
	if yd.Texture != nil {
		d.Texture = &domain.Texture{
			Surface:    yd.Texture.Surface,
			Atmosphere: yd.Texture.Atmosphere,
			Color:      yd.Texture.Color,
		}
	}
	return d
}

func fromDomain(d domain.Domain) yamlDomain {
	yd := yamlDomain{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Type:        d.Type,
		Position:    d.Position,
		Color:       d.Color,
		Size:        d.Size,
		ParentID:    d.ParentID,
		Links:       make([]yamlLink, 0, len(d.Links)),
		SubDomains:  d.SubDomains,
	}
	for _, l := range d.Links {
		yd.Links = append(yd.Links, yamlLink{TargetID: l.TargetID, Verb: l.Verb})
	}
	for _, det := range d.Details {
		yd.Details = append(yd.Details, yamlDetail{Title: det.Title, Description: det.Description})
	}
	if d.Texture != nil {
		yd.Texture = &yamlTexture{
			Surface:    d.Texture.Surface,
			Atmosphere: d.Texture.Atmosphere,
			Color:      d.Texture.Color,
		}
	}
	return yd
}
