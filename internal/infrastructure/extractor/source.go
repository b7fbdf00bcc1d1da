package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"ReviewPulse/internal/domain"
	"ReviewPulse/internal/ports"
)

// Source fetches raw page content for one search method.
type Source interface {
	Method() string
	Fetch(ctx context.Context, req domain.AnalysisRequest) (ports.RawDocument, error)
}

// Registry keeps a mapping from search methods to their source strategies.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source strategy.
func (r *Registry) Register(source Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[source.Method()] = source
}

// Resolve returns a source by search method or an error if it is absent.
func (r *Registry) Resolve(method string) (Source, error) {
	if source, ok := r.sources[method]; ok {
		return source, nil
	}
	return nil, fmt.Errorf("no source registered for search method %q", method)
}

// StrategyResolver implements ports.SourceResolver via registered strategies.
// Inline HTML on the request short-circuits the registry entirely.
type StrategyResolver struct {
	registry *Registry
	logger   *slog.Logger
}

var _ ports.SourceResolver = (*StrategyResolver)(nil)

// NewStrategyResolver wires the source registry.
func NewStrategyResolver(registry *Registry, logger *slog.Logger) *StrategyResolver {
	return &StrategyResolver{registry: registry, logger: logger}
}

// Resolve picks page content for the request's search method.
func (s *StrategyResolver) Resolve(ctx context.Context, req domain.AnalysisRequest) (ports.RawDocument, error) {
	if html := strings.TrimSpace(req.HTMLContent); html != "" {
		return ports.RawDocument{Name: "inline", HTML: html}, nil
	}

	if s.registry == nil {
		return ports.RawDocument{}, fmt.Errorf("source registry is not configured")
	}

	source, err := s.registry.Resolve(req.SearchMethod)
	if err != nil {
		return ports.RawDocument{}, err
	}

	doc, err := source.Fetch(ctx, req)
	if err != nil {
		return ports.RawDocument{}, fmt.Errorf("fetch via %s: %w", source.Method(), err)
	}

	if s.logger != nil {
		s.logger.Debug("source fetched", "method", source.Method(), "source", doc.Name, "bytes", len(doc.HTML))
	}
	return doc, nil
}
