// Package manager orchestrates a generation pass: provider resolution,
// caching, filtering, validation, graph assembly, and reporting.
package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/builtnorth/schemagraph/cache"
	"github.com/builtnorth/schemagraph/content"
	"github.com/builtnorth/schemagraph/errors"
	"github.com/builtnorth/schemagraph/graph"
	"github.com/builtnorth/schemagraph/hook"
	"github.com/builtnorth/schemagraph/metric"
	"github.com/builtnorth/schemagraph/provider"
	"github.com/builtnorth/schemagraph/schema"
	"github.com/builtnorth/schemagraph/schematype"
	"github.com/builtnorth/schemagraph/validate"
)

// Manager ties the provider registry, schema type registry, validator,
// cache, and dispatcher together to answer "generate schemas for context
// X". All collaborators are injected; there is no global state.
type Manager struct {
	providers  *provider.Registry
	types      *schematype.Registry
	validator  *validate.Validator
	cache      *cache.Layered
	dispatcher hook.Dispatcher
	logger     *slog.Logger
	metrics    *metric.Metrics

	mu             sync.Mutex
	cachingEnabled bool
	report         Report
}

// Report is the observable state of the most recent generation passes.
type Report struct {
	PassID           string
	PiecesGenerated  int
	ValidationErrors int
	Warnings         int
	LastErrorByType  map[string]string
	ProviderFailures map[string]int
}

// Config carries the manager's collaborators. Providers, Types,
// Validator, and Dispatcher are required; Cache and Metrics are optional.
type Config struct {
	Providers  *provider.Registry
	Types      *schematype.Registry
	Validator  *validate.Validator
	Cache      *cache.Layered
	Dispatcher hook.Dispatcher
	Logger     *slog.Logger
	Metrics    *metric.Metrics
}

// New creates a manager from its collaborators.
func New(cfg Config) (*Manager, error) {
	if cfg.Providers == nil || cfg.Types == nil || cfg.Validator == nil {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Manager", "New",
			"providers, types, and validator are required")
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = hook.Noop{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Manager{
		providers:      cfg.Providers,
		types:          cfg.Types,
		validator:      cfg.Validator,
		cache:          cfg.Cache,
		dispatcher:     cfg.Dispatcher,
		logger:         cfg.Logger,
		metrics:        cfg.Metrics,
		cachingEnabled: cfg.Cache != nil,
		report: Report{
			LastErrorByType:  make(map[string]string),
			ProviderFailures: make(map[string]int),
		},
	}, nil
}

// SetCachingEnabled toggles the cache layers. Disabled means every
// provider runs fresh on every pass; memo and store are both bypassed.
func (m *Manager) SetCachingEnabled(enabled bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cachingEnabled = enabled && m.cache != nil
}

// CachingEnabled reports whether cache layers are in use.
func (m *Manager) CachingEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cachingEnabled
}

// GenerateSchemas runs the full pass for a context: applicable providers
// in priority order, each cache-checked, filtered, and validated. One
// failing provider is recorded and skipped; the batch continues. The
// returned slice holds one map per valid piece in emission order.
func (m *Manager) GenerateSchemas(ctx context.Context, c *content.Context, opts content.Options) ([]map[string]any, error) {
	if c == nil || !c.Kind.IsValid() {
		return nil, errors.WrapInvalid(errors.ErrInvalidData, "Manager", "GenerateSchemas",
			"context check")
	}

	passID := uuid.NewString()
	started := time.Now()

	applicable := m.providers.ForContext(c, opts)
	if len(applicable) == 0 {
		m.logger.Debug("no applicable providers", "context", c.Key(), "pass", passID)
	}

	var collected []map[string]any
	for _, p := range applicable {
		pieces := m.runProvider(ctx, p, c, opts)
		collected = append(collected, pieces...)
	}

	m.finishPass(passID, c, collected, started)
	return collected, nil
}

// GenerateGraph runs the same pass but assembles the result into a
// graph, applies the graph filter stages, and checks reference
// integrity. Dangling references are logged and the pieces retained.
func (m *Manager) GenerateGraph(ctx context.Context, c *content.Context, opts content.Options) (*graph.Graph, error) {
	maps, err := m.GenerateSchemas(ctx, c, opts)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	for _, piece := range maps {
		if err := g.AddPiece(schema.FromMap("", "", piece)); err != nil {
			m.logger.Warn("piece rejected by graph", "context", c.Key(), "error", err)
		}
	}

	g.ApplyFilters(m.dispatcher, c, opts)

	for _, problem := range g.ValidateReferences() {
		m.logger.Warn("reference integrity", "context", c.Key(), "problem", problem)
	}

	return g, nil
}

// GenerateSchema generates a single schema of a registered type from raw
// data. An unregistered type comes back as an error, never a panic.
func (m *Manager) GenerateSchema(schemaType string, data map[string]any, opts content.Options) (result map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = errors.Wrap(fmt.Errorf("%v", r), "Manager", "GenerateSchema", "generator execution")
		}
	}()

	gen, err := m.types.Generator(schemaType)
	if err != nil {
		return nil, err
	}

	out, err := gen.Generate(data, opts)
	if err != nil {
		return nil, errors.Wrap(err, "Manager", "GenerateSchema", "generation of "+schemaType)
	}
	return out, nil
}

// Report returns a copy of the current generation report.
func (m *Manager) Report() Report {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := Report{
		PassID:           m.report.PassID,
		PiecesGenerated:  m.report.PiecesGenerated,
		ValidationErrors: m.report.ValidationErrors,
		Warnings:         m.report.Warnings,
		LastErrorByType:  make(map[string]string, len(m.report.LastErrorByType)),
		ProviderFailures: make(map[string]int, len(m.report.ProviderFailures)),
	}
	for k, v := range m.report.LastErrorByType {
		r.LastErrorByType[k] = v
	}
	for k, v := range m.report.ProviderFailures {
		r.ProviderFailures[k] = v
	}
	return r
}

// runProvider handles one provider within a pass: cache check, provide,
// filter, validate, cache fill. Failures degrade, never abort the pass.
func (m *Manager) runProvider(ctx context.Context, p provider.Provider, c *content.Context, opts content.Options) []map[string]any {
	key := m.cacheKey(p, c, opts)

	if m.CachingEnabled() {
		if cached, found := m.cache.Get(ctx, key); found {
			if pieces := toPieceMaps(cached); pieces != nil {
				return pieces
			}
		}
	}

	raw, err := m.provide(ctx, p, c, opts)
	if err != nil {
		m.recordProviderFailure(p.ID(), err)
		return nil
	}

	valid := make([]map[string]any, 0, len(raw))
	for _, piece := range raw {
		if piece == nil {
			continue
		}
		data := piece.ToMap()
		data[schema.PropContext] = schema.Context

		filtered := m.dispatcher.ApplyFilters(hook.FilterPreGeneration, data, c, opts)
		if replacement, ok := filtered.(map[string]any); ok && replacement != nil {
			data = replacement
		}

		if !m.admit(data) {
			continue
		}

		valid = append(valid, data)
		if m.metrics != nil {
			m.metrics.RecordPiece(p.ID())
		}
	}

	if m.CachingEnabled() && len(valid) > 0 {
		m.cache.Set(ctx, key, valid, 0)
	}

	return valid
}

// provide invokes the provider with panic recovery so one misbehaving
// provider cannot abort the batch.
func (m *Manager) provide(ctx context.Context, p provider.Provider, c *content.Context, opts content.Options) (pieces []*schema.Piece, err error) {
	defer func() {
		if r := recover(); r != nil {
			pieces = nil
			err = errors.Wrap(fmt.Errorf("%v", r), "Manager", "provide",
				"provider "+p.ID()+" panicked")
		}
	}()
	return p.Provide(ctx, c, opts)
}

// admit validates a piece when its type is registered. Invalid schemas
// are logged and dropped; warnings are logged only.
func (m *Manager) admit(data map[string]any) bool {
	schemaType, _ := data[schema.PropType].(string)
	if schemaType == "" || !m.types.Has(schemaType) {
		return true
	}

	result := m.validator.Validate(data, schemaType)

	for _, warning := range result.Warnings {
		m.logger.Debug("schema validation warning", "type", schemaType, "warning", warning)
	}

	m.mu.Lock()
	m.report.Warnings += len(result.Warnings)
	m.mu.Unlock()
	if m.metrics != nil {
		for range result.Warnings {
			m.metrics.RecordValidationWarning(schemaType)
		}
	}

	if result.Valid() {
		return true
	}

	for _, msg := range result.Errors {
		m.logger.Warn("schema validation failed", "type", schemaType, "error", msg)
	}

	m.mu.Lock()
	m.report.ValidationErrors += len(result.Errors)
	m.report.LastErrorByType[schemaType] = result.Errors[len(result.Errors)-1]
	m.mu.Unlock()
	if m.metrics != nil {
		for range result.Errors {
			m.metrics.RecordValidationError(schemaType)
		}
	}

	return false
}

// cacheKey derives the storage key for one provider's output within a
// context and passes it through the cache-key extension point.
func (m *Manager) cacheKey(p provider.Provider, c *content.Context, opts content.Options) string {
	key := fmt.Sprintf("provider_%s_%s%s", c.Key(), p.ID(), opts.Fingerprint())
	filtered := m.dispatcher.ApplyFilters(hook.FilterCacheKey, key, c, opts)
	if replacement, ok := filtered.(string); ok && replacement != "" {
		return replacement
	}
	return key
}

func (m *Manager) recordProviderFailure(providerID string, err error) {
	m.logger.Warn("provider failed, skipping", "provider", providerID, "error", err)

	m.mu.Lock()
	m.report.ProviderFailures[providerID]++
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.RecordProviderFailure(providerID)
	}
}

func (m *Manager) finishPass(passID string, c *content.Context, collected []map[string]any, started time.Time) {
	m.mu.Lock()
	m.report.PassID = passID
	m.report.PiecesGenerated = len(collected)
	m.mu.Unlock()

	if m.cache != nil {
		m.cache.ResetMemo()
	}

	if m.metrics != nil {
		m.metrics.RecordGenerationPass(c.Key(), "success")
		m.metrics.RecordGenerationDuration(c.Key(), time.Since(started))
	}

	m.dispatcher.Notify(hook.EventSchemaGenerated, collected)
}

// toPieceMaps normalizes a cached value back into piece maps. JSON round
// trips decode slices as []any, so both shapes are accepted.
func toPieceMaps(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil
			}
			out = append(out, m)
		}
		return out
	default:
		return nil
	}
}
