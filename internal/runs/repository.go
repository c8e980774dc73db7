package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/pagination"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/query"
	"github.com/FintorAI/drawdoc-awm-agent-sub002/pkg/repository"
)

type repo struct {
	db         *sql.DB
	stages     []pipeline.Stage
	executor   *pipeline.Executor
	gate       *pipeline.Evaluator
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a run repository implementing the System interface. The
// repository doubles as the engine's ledger: runs triggered through it
// append their own history as they execute.
func New(
	db *sql.DB,
	stages []pipeline.Stage,
	executor *pipeline.Executor,
	gate *pipeline.Evaluator,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		stages:     stages,
		executor:   executor,
		gate:       gate,
		logger:     logger.With("system", "runs"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "LoanID", "Summary")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Detail, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	run, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	stageQ := `
		SELECT stage, status, attempts, elapsed_ms, output, error, error_kind
		FROM stage_results
		WHERE run_id = $1
		ORDER BY position`

	stages, err := repository.QueryMany(ctx, r.db, stageQ, []any{id}, scanStageRecord)
	if err != nil {
		return nil, fmt.Errorf("query stage results: %w", err)
	}

	issueQ := `
		SELECT advisory, severity, source, code, message
		FROM blocking_issues
		WHERE run_id = $1
		ORDER BY advisory, position`

	rows, err := repository.QueryMany(ctx, r.db, issueQ, []any{id}, scanIssueRow)
	if err != nil {
		return nil, fmt.Errorf("query blocking issues: %w", err)
	}

	detail := &Detail{Run: run, Stages: stages, Issues: []Issue{}}
	for _, row := range rows {
		if row.Advisory {
			detail.Advisories = append(detail.Advisories, row.Issue)
		} else {
			detail.Issues = append(detail.Issues, row.Issue)
		}
	}
	return detail, nil
}

// Trigger executes the pipeline for one loan. Each run gets a fresh
// orchestrator; concurrent runs share only the ledger tables underneath.
func (r *repo) Trigger(ctx context.Context, params pipeline.Params) (*pipeline.Run, error) {
	orch := pipeline.NewOrchestrator(r.executor, r.gate, r, r.logger)
	return orch.Execute(ctx, r.stages, params)
}

// RunStarted appends the initial ledger row for a new run.
func (r *repo) RunStarted(ctx context.Context, run *pipeline.Run) error {
	q := `
		INSERT INTO runs(id, loan_id, mode, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, q,
		run.ID, run.LoanID, string(run.Mode), string(run.Status),
		run.CreatedAt, run.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// StageRecorded appends one stage result row. The result's position is its
// index in the run's stage list, which the orchestrator has already
// extended when this fires.
func (r *repo) StageRecorded(ctx context.Context, run *pipeline.Run, result *pipeline.StageResult) error {
	q := `
		INSERT INTO stage_results(run_id, position, stage, status, attempts, elapsed_ms, output, error, error_kind)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, q,
		run.ID,
		len(run.Stages)-1,
		result.Stage,
		string(result.Status),
		result.Attempts,
		result.Elapsed.Milliseconds(),
		marshalOutput(r.logger, result),
		result.Error,
		string(result.ErrorKind),
	)
	if err != nil {
		return fmt.Errorf("insert stage result: %w", err)
	}
	return nil
}

// RunCompleted finalizes the ledger row and appends the run's blocking
// issues and advisories. Only rows still in running accept the update;
// a run that already reached a terminal status stays as written.
func (r *repo) RunCompleted(ctx context.Context, run *pipeline.Run) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE runs SET status = $2, summary = $3, updated_at = $4 WHERE id = $1 AND status = 'running'",
			run.ID, string(run.Status), run.Summary, run.UpdatedAt,
		); err != nil {
			return struct{}{}, fmt.Errorf("finalize run: %w", err)
		}

		if err := insertIssues(ctx, tx, run.ID, run.Issues, false); err != nil {
			return struct{}{}, err
		}
		if err := insertIssues(ctx, tx, run.ID, run.Advisories, true); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return err
	}

	r.logger.Info("run recorded",
		"id", run.ID,
		"loan_id", run.LoanID,
		"status", run.Status,
		"issues", len(run.Issues),
	)
	return nil
}

func insertIssues(ctx context.Context, tx *sql.Tx, runID uuid.UUID, issues []pipeline.BlockingIssue, advisory bool) error {
	q := `
		INSERT INTO blocking_issues(run_id, position, advisory, severity, source, code, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, issue := range issues {
		if _, err := tx.ExecContext(ctx, q,
			runID, i, advisory,
			issue.Severity, issue.Source, issue.Code, issue.Message,
		); err != nil {
			return fmt.Errorf("insert blocking issue: %w", err)
		}
	}
	return nil
}

// marshalOutput serializes a stage output for the jsonb column. Outputs
// that fail to serialize are stored as NULL rather than failing the ledger
// append; every engine output type serializes cleanly.
func marshalOutput(logger *slog.Logger, result *pipeline.StageResult) any {
	if result.Output == nil {
		return nil
	}

	data, err := json.Marshal(result.Output)
	if err != nil {
		logger.Warn("stage output not serializable",
			"stage", result.Stage,
			"error", err,
		)
		return nil
	}
	return data
}
