// Package catalog loads the domain catalog and builds the graph from it.
//
// The built-in catalog is embedded in the binary. A catalog file on disk may
// replace it; files ending in .json are read as JSON, anything else as YAML.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"domainverse/internal/codec"
	"domainverse/internal/domain"
	"domainverse/internal/logger"
)

//go:embed catalog.yaml
var builtin []byte

// Default returns the domains of the built-in catalog
func Default() ([]domain.Domain, error) {
	return Parse(bytes.NewReader(builtin), codec.NewYAMLCodec())
}

// Load reads and validates a catalog file
func Load(path string) ([]domain.Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	domains, err := Parse(f, codec.ForPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return domains, nil
}

// Parse decodes and validates a catalog
func Parse(r io.Reader, importer codec.Importer) ([]domain.Domain, error) {
	fragment, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}
	if err := Validate(fragment.Domains); err != nil {
		return nil, err
	}
	return fragment.Domains, nil
}

// Build constructs the graph and logs every reference that does not resolve.
// Dangling references are tolerated; queries skip them.
func Build(ctx context.Context, domains []domain.Domain) (*domain.Graph, error) {
	g, err := domain.NewGraph(domains)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}

	for _, ref := range g.DanglingReferences() {
		logger.Warn(ctx, "dangling reference in catalog",
			zap.String("domain_id", ref.DomainID),
			zap.String("kind", string(ref.Kind)),
			zap.String("target_id", ref.TargetID),
		)
	}

	return g, nil
}

// Open loads the catalog at path, or the built-in one when path is empty,
// and builds the graph
func Open(ctx context.Context, path string) (*domain.Graph, error) {
	var (
		domains []domain.Domain
		err     error
	)
	if path == "" {
		domains, err = Default()
	} else {
		domains, err = Load(path)
	}
	if err != nil {
		return nil, err
	}

	g, err := Build(ctx, domains)
	if err != nil {
		return nil, err
	}

	source := path
	if source == "" {
		source = "built-in"
	}
	logger.Info(ctx, "catalog loaded", zap.String("source", source), zap.Int("domains", g.Len()))
	return g, nil
}
