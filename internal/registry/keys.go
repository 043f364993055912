package registry

import (
	"github.com/nfrund/stylelens/internal/analysis"
	"github.com/nfrund/stylelens/internal/capture"
	"github.com/nfrund/stylelens/internal/storage"
)

// Shared services. Modules resolve these in Boot after every module has registered.
var (
	AnalysisClientKey = Key[*analysis.Client]("analysis.client")
	DraftsKey         = Key[*capture.Drafts]("capture.drafts")
	BlobStoreKey      = Key[storage.Store]("storage.blobs")
)
