package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/mbti-climate-service/internal/domain"
	"github.com/couchcryptid/mbti-climate-service/internal/observability"
	"github.com/google/uuid"
)

const uploadedCapitals = "uploaded capitals"

// ReferenceSource loads the capitals reference table from a location.
type ReferenceSource interface {
	Capitals(ctx context.Context, src string) ([]domain.ReferenceGeoRow, error)
}

// Publisher delivers a finished result downstream and reports how many
// records it wrote.
type Publisher interface {
	Publish(ctx context.Context, result *domain.Result) (int, error)
}

// RunInput is one dataset to process.
type RunInput struct {
	Source   string
	Encoding string
	Data     domain.RawTable
	// Capitals, when set, replaces the configured reference source for this run.
	Capitals *domain.RawTable
	// CapitalsErr reports an uploaded capitals file that could not be read.
	// The run continues without reference data.
	CapitalsErr error
}

// Pipeline runs datasets through the transform chain and keeps the most
// recent successful result.
type Pipeline struct {
	reference   ReferenceSource
	capitalsSrc string
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	latest      atomic.Pointer[domain.Result]
	newRunID    func() string
}

// New creates a Pipeline. reference and publisher may be nil: without a
// reference every row is left unmatched, without a publisher nothing is sent.
func New(reference ReferenceSource, capitalsSrc string, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		reference:   reference,
		capitalsSrc: capitalsSrc,
		publisher:   publisher,
		logger:      logger,
		metrics:     metrics,
		newRunID:    uuid.NewString,
	}
}

// CheckReadiness returns nil once a run has succeeded, or an error describing
// why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.latest.Load() == nil {
		return errors.New("no dataset has been processed yet")
	}
	return nil
}

// Latest returns the most recent successful result.
func (p *Pipeline) Latest() (*domain.Result, bool) {
	r := p.latest.Load()
	return r, r != nil
}

// Run processes one dataset. Schema and shape errors are returned and leave
// the latest result untouched; reference and publish failures are logged and
// the run still succeeds.
func (p *Pipeline) Run(ctx context.Context, in RunInput) (*domain.Result, error) {
	start := time.Now()
	runID := p.newRunID()
	logger := p.logger.With("run_id", runID, "source", in.Source)

	p.metrics.RowsRead.Add(float64(len(in.Data.Rows)))

	refs, refWarning := p.loadReference(ctx, in, logger)

	result, err := Transform(in.Data, refs)
	if err != nil {
		p.metrics.PipelineRuns.WithLabelValues(outcome(err)).Inc()
		logger.Warn("pipeline run failed", "error", err)
		return nil, err
	}

	result.RunID = runID
	result.Source = in.Source
	result.Encoding = in.Encoding
	if refWarning != "" {
		result.Warnings = append(result.Warnings, refWarning)
	}

	p.recordRun(&result)
	p.latest.Store(&result)
	p.publish(ctx, &result, logger)

	p.metrics.PipelineRuns.WithLabelValues("success").Inc()
	p.metrics.RunDuration.Observe(time.Since(start).Seconds())
	logger.Info("pipeline run complete",
		"shape", result.Canonical.Shape,
		"country_column", result.Canonical.CountryColumn,
		"countries", len(result.Geo.Records),
		"matched", result.Geo.Matched,
		"warnings", len(result.Warnings),
	)
	return &result, nil
}

// loadReference returns the reference rows for a run, or nil plus a warning
// when they are unavailable.
func (p *Pipeline) loadReference(ctx context.Context, in RunInput, logger *slog.Logger) ([]domain.ReferenceGeoRow, string) {
	var (
		refs []domain.ReferenceGeoRow
		err  error
	)
	switch {
	case in.CapitalsErr != nil:
		err = &domain.FetchError{Resource: uploadedCapitals, Err: in.CapitalsErr}
	case in.Capitals != nil:
		refs, err = domain.ParseReference(*in.Capitals)
		if err != nil {
			err = &domain.FetchError{Resource: uploadedCapitals, Err: err}
		}
	case p.reference != nil:
		refs, err = p.reference.Capitals(ctx, p.capitalsSrc)
	default:
		return nil, ""
	}

	if err != nil {
		logger.Warn("reference data unavailable, continuing without geography", "error", err)
		return nil, "reference data unavailable: " + err.Error()
	}
	return refs, ""
}

func (p *Pipeline) publish(ctx context.Context, result *domain.Result, logger *slog.Logger) {
	if p.publisher == nil {
		return
	}
	n, err := p.publisher.Publish(ctx, result)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		logger.Warn("publish failed", "error", err)
		return
	}
	p.metrics.RecordsPublished.Add(float64(n))
}

func (p *Pipeline) recordRun(result *domain.Result) {
	matched := result.Geo.Matched
	p.metrics.RecordsProduced.Add(float64(len(result.Geo.Records)))
	p.metrics.JoinResults.WithLabelValues("matched").Add(float64(matched))
	p.metrics.JoinResults.WithLabelValues("unmatched").Add(float64(len(result.Geo.Records) - matched))
	if result.ReferenceAvailable {
		p.metrics.ReferenceAvailable.Set(1)
	} else {
		p.metrics.ReferenceAvailable.Set(0)
	}
}

func outcome(err error) string {
	var (
		schemaErr *domain.SchemaError
		shapeErr  *domain.ShapeError
		ioErr     *domain.IOError
	)
	switch {
	case errors.As(err, &schemaErr):
		return "schema_error"
	case errors.As(err, &shapeErr):
		return "shape_error"
	case errors.As(err, &ioErr):
		return "io_error"
	default:
		return "error"
	}
}
