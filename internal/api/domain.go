package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/awm"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/config"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/documents"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/ocr"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/runs"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/stages"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Documents documents.System
	Runs      runs.System
}

// NewDomain creates all domain systems from the API runtime: the document
// store, the platform clients, and the run system wired to the full stage
// pipeline.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	docsSystem := documents.New(
		runtime.Database.Connection(),
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	awmClient := awm.New(cfg.AWM, runtime.Logger)
	ocrClient := ocr.New(cfg.OCR, runtime.Logger)

	fieldMap, err := loadFieldMap(cfg.Pipeline.FieldMap)
	if err != nil {
		return nil, fmt.Errorf("load field map: %w", err)
	}

	gate, err := loadGate(cfg.Pipeline.GateRules)
	if err != nil {
		return nil, fmt.Errorf("load gate rules: %w", err)
	}

	deps := stages.Deps{
		Fields:     awmClient,
		Documents:  &documentSource{docs: docsSystem},
		Extractor:  ocrClient,
		Compliance: awmClient,
		Operations: awmClient,
		Poller:     pipeline.NewPoller(runtime.Logger),
		FieldMap:   fieldMap,
		Retry: pipeline.RetryPolicy{
			MaxRetries: cfg.Pipeline.MaxRetries,
			BaseDelay:  cfg.Pipeline.BaseDelayDuration(),
		},
		ExtractWorkers: cfg.Pipeline.ExtractWorkers,
		Poll:           pollPolicies(cfg.Pipeline.Poll),
	}

	runsSystem := runs.New(
		runtime.Database.Connection(),
		stages.Default(&deps),
		pipeline.NewExecutor(runtime.Logger),
		gate,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Documents: docsSystem,
		Runs:      runsSystem,
	}, nil
}

// documentSource adapts the document domain to the pipeline's inventory
// contract.
type documentSource struct {
	docs documents.System
}

func (s *documentSource) Documents(ctx context.Context, loanID string) ([]stages.Document, error) {
	docs, err := s.docs.ByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	out := make([]stages.Document, 0, len(docs))
	for _, d := range docs {
		var pages int
		if d.PageCount != nil {
			pages = *d.PageCount
		}
		out = append(out, stages.Document{
			ID:       d.ID,
			Filename: d.Filename,
			Pages:    pages,
			Size:     d.SizeBytes,
		})
	}
	return out, nil
}

func (s *documentSource) Content(ctx context.Context, id uuid.UUID) ([]byte, error) {
	return s.docs.Content(ctx, id)
}

func loadFieldMap(path string) (*stages.FieldMap, error) {
	if path == "" {
		return stages.DefaultFieldMap(), nil
	}
	return stages.LoadFieldMap(path)
}

func loadGate(path string) (*pipeline.Evaluator, error) {
	spec := pipeline.DefaultRules()
	if path != "" {
		loaded, err := pipeline.LoadRules(path)
		if err != nil {
			return nil, err
		}
		spec = loaded
	}
	return pipeline.NewEvaluator(spec)
}

func pollPolicies(cfgs map[string]config.PollConfig) map[string]pipeline.PollPolicy {
	if len(cfgs) == 0 {
		return nil
	}

	policies := make(map[string]pipeline.PollPolicy, len(cfgs))
	for kind, pc := range cfgs {
		policies[kind] = pipeline.PollPolicy{
			Interval:  pc.IntervalDuration(),
			MaxChecks: pc.MaxChecks,
		}
	}
	return policies
}
