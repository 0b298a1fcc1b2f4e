package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"domainverse/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports domain data from JSON. Edges are derived data and are ignored
// by the loader, but they are decoded when present.
func (c *JSONCodec) Parse(r io.Reader) (*domain.Fragment, error) {
	fragment := domain.NewFragment()
	decoder := json.NewDecoder(r)
	if err := decoder.Decode(fragment); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	for i := range fragment.Domains {
		if fragment.Domains[i].Links == nil {
			fragment.Domains[i].Links = make([]domain.Link, 0)
		}
	}

	return fragment, nil
}

// Export exports domain data to JSON
func (c *JSONCodec) Export(fragment *domain.Fragment, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(fragment); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
