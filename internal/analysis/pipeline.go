package analysis

import (
	"go.uber.org/zap"

	"kwintel/internal/models"
	"kwintel/internal/service"
	"kwintel/internal/table"
)

// Options controls one pipeline run.
type Options struct {
	Fuzzy     bool
	Threshold int
}

// Result is everything one run produces. Tables are owned by the result;
// inputs are never mutated.
type Result struct {
	Segments        models.Segments
	Scored          []models.ScoredRecord
	Recommendations models.RecommendationSet
	Report          string
	Warnings        []string
}

// Pipeline wires the stages together: normalize keys, join, segment,
// score the overlap, recommend. Stateless across runs.
type Pipeline struct {
	log         *zap.Logger
	normalizer  *service.KeywordNormalizer
	resolver    *service.SchemaResolver
	joiner      *service.Joiner
	segmenter   *service.Segmenter
	signals     *service.SignalComputer
	recommender *service.Recommender
}

// NewPipeline creates a pipeline. A nil logger is replaced with a no-op one.
func NewPipeline(logger *zap.Logger, resolver *service.SchemaResolver) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if resolver == nil {
		resolver = service.NewSchemaResolver()
	}
	return &Pipeline{
		log:         logger,
		normalizer:  service.NewKeywordNormalizer(),
		resolver:    resolver,
		joiner:      service.NewJoiner(),
		segmenter:   service.NewSegmenter(),
		signals:     service.NewSignalComputer(resolver),
		recommender: service.NewRecommender(resolver),
	}
}

// Run executes one full pass over materialized inputs. It never fails:
// malformed cells coerce, missing columns resolve to defaults, empty
// inputs yield empty segments and a report that says so.
func (p *Pipeline) Run(organic, paid *table.Table, opts Options) *Result {
	organic = organic.Clone()
	paid = paid.Clone()

	p.attachKeys(organic, models.ColQuery)
	p.attachKeys(paid, models.ColKeyword)

	merged := p.joiner.Join(organic, paid, opts.Fuzzy, opts.Threshold)
	segments := p.segmenter.Segment(merged)

	scoredTable, scored := p.signals.Score(segments.Overlap)
	segments.Overlap = scoredTable

	set := p.recommender.Recommend(scoredTable, segments.OrganicOnly)
	report := p.recommender.Render(set)

	segments.Overlap = segments.Overlap.Tidy(models.PreferredColumns)
	segments.OrganicOnly = segments.OrganicOnly.Tidy(models.PreferredColumns)
	segments.PaidOnly = segments.PaidOnly.Tidy(models.PreferredColumns)

	p.log.Info("pipeline run complete",
		zap.Bool("fuzzy", opts.Fuzzy),
		zap.Int("threshold", opts.Threshold),
		zap.Int("overlap", segments.Overlap.Len()),
		zap.Int("organic_only", segments.OrganicOnly.Len()),
		zap.Int("paid_only", segments.PaidOnly.Len()),
	)

	return &Result{
		Segments:        segments,
		Scored:          scored,
		Recommendations: set,
		Report:          report,
	}
}

// RunCSVFiles loads both inputs from disk and runs the pipeline. Loader
// warnings (schema drift) are logged and attached to the result;
// unreadable files are fatal and returned as errors.
func (p *Pipeline) RunCSVFiles(organicPath, paidPath string, opts Options) (*Result, error) {
	organic, organicWarnings, err := LoadOrganicCSV(organicPath)
	if err != nil {
		return nil, err
	}
	paid, paidWarnings, err := LoadPaidCSV(paidPath)
	if err != nil {
		return nil, err
	}

	warnings := append(organicWarnings, paidWarnings...)
	for _, w := range warnings {
		p.log.Warn("schema drift", zap.String("warning", w))
	}

	result := p.Run(organic, paid, opts)
	result.Warnings = warnings
	return result, nil
}

// attachKeys adds the kw_norm column derived from the side's keyword text
// column. The source column is resolved tolerantly; a side with no usable
// text column gets empty keys rather than an error.
func (p *Pipeline) attachKeys(t *table.Table, defaultSource string) {
	var candidates []string
	if defaultSource == models.ColQuery {
		candidates = []string{models.ColQuery, models.ColKeyword}
	} else {
		candidates = []string{models.ColKeyword, models.ColQuery}
	}
	src := p.resolver.Resolve(t, candidates, defaultSource, table.Missing)
	t.AddColumn(models.ColKey, table.Missing)
	for _, row := range t.Rows {
		row[models.ColKey] = table.Text(p.normalizer.Normalize(row[src].Str()))
	}
}
