package export

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/veritrace/qrbatch-backend/pkg/enums"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
	"github.com/veritrace/qrbatch-backend/pkg/metrics"
)

const (
	manifestContentType = "text/csv"
	reportContentType   = "application/pdf"
)

// BlobStore is the upload surface the pipeline needs from object storage.
type BlobStore interface {
	Upload(ctx context.Context, object string, data []byte, contentType string) error
	PublicURL(object string) string
}

// ArtifactResult reports the outcome of one export artifact. A failed
// artifact never fails the batch; the caller surfaces the partial outcome.
type ArtifactResult struct {
	Kind      enums.ArtifactKind `json:"kind"`
	Generated bool               `json:"generated"`
	Location  string             `json:"location,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Pipeline builds and uploads the manifest and report for a committed batch.
type Pipeline struct {
	store   BlobStore
	logg    *logger.Logger
	metrics *metrics.BatchMetrics
}

func NewPipeline(store BlobStore, logg *logger.Logger, m *metrics.BatchMetrics) (*Pipeline, error) {
	if store == nil {
		return nil, fmt.Errorf("blob store required")
	}
	return &Pipeline{store: store, logg: logg, metrics: m}, nil
}

// Run exports both artifacts concurrently. Each artifact succeeds or fails
// independently; results come back in a fixed order (manifest, report).
func (p *Pipeline) Run(ctx context.Context, view BatchView) []ArtifactResult {
	results := make([]ArtifactResult, 2)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		results[0] = p.export(ctx, view, enums.ArtifactKindManifest)
	}()
	go func() {
		defer wg.Done()
		results[1] = p.export(ctx, view, enums.ArtifactKindReport)
	}()

	wg.Wait()
	return results
}

func (p *Pipeline) export(ctx context.Context, view BatchView, kind enums.ArtifactKind) ArtifactResult {
	data, contentType, err := p.build(view, kind)
	if err != nil {
		return p.failed(ctx, kind, fmt.Errorf("building %s: %w", kind, err))
	}

	object := ObjectKey(view, kind)
	if err := p.store.Upload(ctx, object, data, contentType); err != nil {
		return p.failed(ctx, kind, fmt.Errorf("uploading %s: %w", kind, err))
	}

	return ArtifactResult{
		Kind:      kind,
		Generated: true,
		Location:  p.store.PublicURL(object),
	}
}

func (p *Pipeline) build(view BatchView, kind enums.ArtifactKind) ([]byte, string, error) {
	switch kind {
	case enums.ArtifactKindManifest:
		data, err := BuildManifest(view)
		return data, manifestContentType, err
	case enums.ArtifactKindReport:
		data, err := BuildReport(view)
		return data, reportContentType, err
	default:
		return nil, "", fmt.Errorf("unknown artifact kind %q", kind)
	}
}

func (p *Pipeline) failed(ctx context.Context, kind enums.ArtifactKind, err error) ArtifactResult {
	if p.logg != nil {
		p.logg.Error(ctx, fmt.Sprintf("%s export failed", kind), err)
	}
	p.metrics.IncExportFailure(kind.String())
	return ArtifactResult{Kind: kind, Error: err.Error()}
}

// ObjectKey returns the storage key for one artifact of a batch. Re-running
// an export overwrites the previous object at the same key.
func ObjectKey(view BatchView, kind enums.ArtifactKind) string {
	switch kind {
	case enums.ArtifactKindReport:
		return fmt.Sprintf("batches/%s/report.pdf", view.BatchID)
	default:
		return fmt.Sprintf("batches/%s/manifest.csv", view.BatchID)
	}
}

// CombinedError folds the per-artifact failures into one error for logging.
// It returns nil when every artifact exported cleanly.
func CombinedError(results []ArtifactResult) error {
	var err error
	for _, r := range results {
		if r.Error != "" {
			err = multierr.Append(err, fmt.Errorf("%s: %s", r.Kind, r.Error))
		}
	}
	return err
}
