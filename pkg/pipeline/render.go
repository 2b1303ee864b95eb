package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/objectgraph/pkg/errors"
	"github.com/matzehuels/objectgraph/pkg/model"
	"github.com/matzehuels/objectgraph/pkg/objgraph"
	"github.com/matzehuels/objectgraph/pkg/render/dot"
	"github.com/matzehuels/objectgraph/pkg/render/plantuml"
)

// Renderer returns the renderer for format. ctx bounds Graphviz layout for
// SVG output.
func Renderer(ctx context.Context, format string, opts Options) (objgraph.Renderer, error) {
	switch format {
	case FormatPlantUML:
		return plantuml.New(plantuml.Options{Title: opts.Title, HideFields: opts.HideFields}), nil
	case FormatDOT:
		return dot.New(dot.Options{Title: opts.Title, HideFields: opts.HideFields}), nil
	case FormatSVG:
		return dot.NewSVG(ctx, dot.Options{Title: opts.Title, HideFields: opts.HideFields}), nil
	case FormatJSON:
		return objgraph.RendererFunc(func(w io.Writer, g *objgraph.ObjectGraph) error {
			return model.Encode(w, g, model.FormatJSON)
		}), nil
	default:
		return nil, ValidateFormat(format)
	}
}

// Render generates output artifacts in the requested formats. Formats are
// rendered concurrently; the graph is an immutable snapshot so renderers
// share it without locking.
func Render(ctx context.Context, g *objgraph.ObjectGraph, opts Options) (map[string][]byte, error) {
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(opts.Formats))
	)
	eg, egCtx := errgroup.WithContext(ctx)
	for _, format := range opts.Formats {
		eg.Go(func() error {
			data, err := renderOne(egCtx, g, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			artifacts[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, g *objgraph.ObjectGraph, format string, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r, err := Renderer(ctx, format, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, g); err != nil {
		return nil, classify(err, errors.ErrCodeInternal, fmt.Sprintf("render %s", format))
	}
	return buf.Bytes(), nil
}
