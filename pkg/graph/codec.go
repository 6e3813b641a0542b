package graph

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/errors"
)

// Format is a serialization format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s", path)
}

// =============================================================================
// Graph Reading
// =============================================================================

// Decode reads a graph in the given format and validates it.
func Decode(r io.Reader, format Format) (*Graph, error) {
	var g Graph
	if err := decode(r, format, &g); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

// ReadGraphFile reads and validates a graph file.
func ReadGraphFile(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	g, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// =============================================================================
// Result Writing
// =============================================================================

// WriteResult encodes r in the given format.
func WriteResult(w io.Writer, r *Result, format Format) error {
	return encode(w, format, r)
}

// WriteResultFile writes r to path, choosing the format from the extension.
func WriteResultFile(path string, r *Result) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(f, r, format)
}

// ReadResult decodes a result written by [WriteResult].
func ReadResult(r io.Reader, format Format) (*Result, error) {
	var res Result
	if err := decode(r, format, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// =============================================================================
// Rectangles
// =============================================================================

// DecodeRects reads a rectangle list. TOML lists live under a "rects" key.
func DecodeRects(r io.Reader, format Format) ([]Rect, error) {
	var rs []Rect
	if format == FormatTOML {
		var l rectList
		if err := decode(r, format, &l); err != nil {
			return nil, err
		}
		rs = l.Rects
	} else if err := decode(r, format, &rs); err != nil {
		return nil, err
	}
	for i, rc := range rs {
		if err := errors.ValidateFinite(fmt.Sprintf("rect %d x", i), rc.X); err != nil {
			return nil, err
		}
		if err := errors.ValidateFinite(fmt.Sprintf("rect %d y", i), rc.Y); err != nil {
			return nil, err
		}
		if err := errors.ValidateSize(fmt.Sprintf("rect %d width", i), rc.Width); err != nil {
			return nil, err
		}
		if err := errors.ValidateSize(fmt.Sprintf("rect %d height", i), rc.Height); err != nil {
			return nil, err
		}
	}
	return rs, nil
}

// ReadRectsFile reads a rectangle list file.
func ReadRectsFile(path string) ([]Rect, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeRects(f, format)
}

// WriteRects encodes a rectangle list.
func WriteRects(w io.Writer, rs []Rect, format Format) error {
	if format == FormatTOML {
		return encode(w, format, rectList{Rects: rs})
	}
	return encode(w, format, rs)
}

// =============================================================================
// Internal Implementation
// =============================================================================

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "%s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

func decode(r io.Reader, format Format, v any) error {
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(v)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(v)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(v)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	if err == io.EOF {
		return errors.New(errors.ErrCodeInvalidFormat, "empty %s input", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return nil
}

func encode(w io.Writer, format Format, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return enc.Close()
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}
