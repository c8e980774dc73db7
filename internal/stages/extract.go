package stages

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/FintorAI/drawdoc-awm-agent-sub002/internal/pipeline"
)

// DocumentExtraction records the field values pulled from one document.
type DocumentExtraction struct {
	DocumentID string            `json:"document_id"`
	Filename   string            `json:"filename"`
	Fields     map[string]string `json:"fields"`
}

// ExtractOutput merges extracted values across documents. Inventory order
// decides conflicts: a later document overrides an earlier one.
type ExtractOutput struct {
	Documents []DocumentExtraction `json:"documents"`
	Fields    map[string]string    `json:"fields"`
}

// Extract builds the extraction fan-out stage. Each intake document is
// fetched and extracted concurrently, bounded by the configured worker
// count; one failed document fails the stage.
func Extract(d *Deps) pipeline.Stage {
	return pipeline.Stage{
		Name:      StageExtract,
		OnFailure: pipeline.HaltOnFailure,
		Retry:     d.retry(),
		Run: func(ctx context.Context, req *pipeline.Request) (any, error) {
			prep, err := pipeline.Output[PrepareOutput](req.Outputs, StagePrepare)
			if err != nil {
				return nil, err
			}

			results := make([]DocumentExtraction, len(prep.Documents))
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(d.workers())
			for i, doc := range prep.Documents {
				g.Go(func() error {
					content, err := d.Documents.Content(gctx, doc.ID)
					if err != nil {
						return fmt.Errorf("fetch %s: %w", doc.Filename, err)
					}
					raw, err := d.Extractor.Extract(gctx, doc, content)
					if err != nil {
						return fmt.Errorf("extract %s: %w", doc.Filename, err)
					}
					fields := make(map[string]string, len(raw))
					for id, value := range raw {
						fields[id] = d.FieldMap.Normalize(id, value)
					}
					results[i] = DocumentExtraction{
						DocumentID: doc.ID.String(),
						Filename:   doc.Filename,
						Fields:     fields,
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return nil, err
			}

			merged := make(map[string]string)
			for _, r := range results {
				for id, value := range r.Fields {
					if value != "" {
						merged[id] = value
					}
				}
			}
			return ExtractOutput{Documents: results, Fields: merged}, nil
		},
	}
}
