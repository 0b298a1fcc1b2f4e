// Package codec converts domain fragments to and from wire formats.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"domainverse/internal/domain"
)

// ErrUnknownFormat is returned for a format no codec handles
var ErrUnknownFormat = errors.New("unknown format")

// Importer interface for importing domain data from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Fragment, error)
	Format() string
}

// Exporter interface for exporting domain data to various formats
type Exporter interface {
	Export(fragment *domain.Fragment, w io.Writer) error
	Format() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

// Formats lists the supported format identifiers
func Formats() []string {
	return []string{"json", "yaml"}
}

// ForFormat returns the codec for a format identifier. "yml" is an alias of "yaml".
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// ForPath picks a codec from a file extension, defaulting to YAML
func ForPath(path string) Codec {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONCodec()
	}
	return NewYAMLCodec()
}
