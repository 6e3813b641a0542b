package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/observability"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/render"
)

// Render encodes a layout result in every format of opts.Formats.
func Render(ctx context.Context, res *graph.Result, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, res, g, opts, format)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// renderFormat encodes one format. SVG reports its own render hook.
func renderFormat(ctx context.Context, res *graph.Result, g *graph.Graph, opts Options, format string) (data []byte, err error) {
	if format != FormatSVG {
		start := time.Now()
		defer func() {
			observability.Layout().OnRender(ctx, format, len(data), time.Since(start), err)
		}()
	}
	switch format {
	case FormatJSON, FormatYAML, FormatTOML:
		var buf bytes.Buffer
		if err := graph.WriteResult(&buf, res, graph.Format(format)); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatDOT:
		return []byte(render.ToDOT(res, g, renderOptions(opts))), nil
	case FormatSVG:
		return render.RenderSVG(ctx, render.ToDOT(res, g, renderOptions(opts)))
	}
	return nil, ValidateFormat(format)
}

func renderOptions(opts Options) render.Options {
	return render.Options{Detailed: opts.Detailed, Scale: opts.Scale}
}
