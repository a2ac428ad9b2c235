// Package service orchestrates the description-to-image pipeline: LLM
// extraction, parsing, template fallback, code synthesis and rendering.
package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"diagen/internal/artifact"
	"diagen/internal/diagram"
	"diagen/internal/llm"
	"diagen/internal/metrics"
	"diagen/internal/render"
)

// Renderer turns synthesized Graphviz source into an image artifact.
type Renderer interface {
	Render(ctx context.Context, source string, format diagram.Format) (*render.Artifact, error)
}

// Result is one successful generation.
type Result struct {
	Filename   string
	ImageURL   string
	SourceText string
}

type Generator struct {
	llm       llm.Client
	parser    *diagram.Parser
	templates *diagram.Templates
	renderer  Renderer
	mirror    artifact.Mirror
	outDir    string
	met       *metrics.Metrics
	log       *zap.Logger
}

func NewGenerator(client llm.Client, parser *diagram.Parser, templates *diagram.Templates, renderer Renderer, mirror artifact.Mirror, outDir string, met *metrics.Metrics, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		llm:       client,
		parser:    parser,
		templates: templates,
		renderer:  renderer,
		mirror:    mirror,
		outDir:    outDir,
		met:       met,
		log:       log,
	}
}

// Generate runs the full pipeline for one description. Format and input
// validation happen before any LLM or render work. LLM failures degrade to
// heuristic text parsing; an empty parse substitutes a template graph. The
// returned error is a *diagram.ValidationError or *render.Error when the
// caller needs to distinguish; render errors carry the attempted source.
func (g *Generator) Generate(ctx context.Context, description, formatStr string) (*Result, error) {
	format, err := diagram.ParseFormat(formatStr)
	if err != nil {
		g.count(metrics.OutcomeValidationError)
		return nil, err
	}
	description = strings.TrimSpace(description)
	if description == "" {
		g.count(metrics.OutcomeValidationError)
		return nil, &diagram.ValidationError{Msg: "description is required"}
	}

	payload, err := g.llm.ExtractGraph(ctx, description)
	if err != nil {
		// Extraction trouble never fails the request; the heuristic
		// parser works from the raw description instead.
		g.log.Warn("llm extraction failed, falling back to raw text",
			zap.String("client", g.llm.Name()), zap.Error(err))
		payload = diagram.Payload{RawText: description}
	}

	graph, err := g.parser.Parse(payload, format)
	if err != nil {
		g.count(metrics.OutcomeValidationError)
		return nil, err
	}
	if graph.Empty() {
		g.log.Info("parse produced no nodes, substituting template",
			zap.String("description", truncate(description, 80)))
		if g.met != nil {
			g.met.TemplateFallbacks.Inc()
		}
		graph = g.templates.Lookup(description, format)
	}

	source := diagram.Synthesize(graph)

	start := time.Now()
	art, err := g.renderer.Render(ctx, source, format)
	if err != nil {
		g.count(metrics.OutcomeRenderError)
		return nil, err
	}
	if g.met != nil {
		g.met.RenderSeconds.Observe(time.Since(start).Seconds())
	}
	g.count(metrics.OutcomeOK)

	if g.mirror != nil {
		go g.mirrorArtifact(art.Filename)
	}

	return &Result{
		Filename:   art.Filename,
		ImageURL:   "/images/" + art.Filename,
		SourceText: source,
	}, nil
}

// mirrorArtifact uploads a rendered file in the background. Upload failures
// are logged and otherwise ignored; the local file is the source of truth.
func (g *Generator) mirrorArtifact(filename string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	content, err := os.ReadFile(filepath.Join(g.outDir, filename))
	if err != nil {
		g.log.Warn("read artifact for mirror", zap.String("file", filename), zap.Error(err))
		return
	}
	if err := g.mirror.Put(ctx, filename, content, ""); err != nil {
		g.log.Warn("mirror upload failed", zap.String("file", filename), zap.Error(err))
		return
	}
	g.log.Debug("artifact mirrored", zap.String("file", filename))
}

func (g *Generator) count(outcome string) {
	if g.met != nil {
		g.met.GenerateTotal.WithLabelValues(outcome).Inc()
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// IsValidation reports whether err is a pre-pipeline validation failure.
func IsValidation(err error) bool {
	var ve *diagram.ValidationError
	return errors.As(err, &ve)
}
