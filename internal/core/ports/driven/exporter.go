package driven

import (
	"context"

	"github.com/docshelf-labs/docshelf-cli/internal/core/domain"
)

// SiteExporter publishes the metadata collection for downstream consumers
// (the site's search UI and the graph layer). The exported shape, a list
// of DocumentRecord with stable field names and enum values, is the
// contract boundary; the manifest is pipeline-private and never exported.
type SiteExporter interface {
	// Export writes the full record collection, sorted by filename,
	// replacing any previous export atomically.
	Export(ctx context.Context, records []domain.DocumentRecord) error
}
