package api

import (
	"context"
	"net/http"

	"github.com/okian/pointsplus/internal/adapters/publish"
)

// DistributionDependencies defines the interface for the histogram.
type DistributionDependencies interface {
	Distribution(ctx context.Context) ([]publish.Bin, error)
}

// DistributionHandler handles histogram requests.
type DistributionHandler struct {
	deps DistributionDependencies
}

// NewDistributionHandler creates a new distribution handler.
func NewDistributionHandler(deps DistributionDependencies) *DistributionHandler {
	return &DistributionHandler{deps: deps}
}

// HandleGetDistribution handles GET /distribution.
func (h *DistributionHandler) HandleGetDistribution(w http.ResponseWriter, r *http.Request) {
	bins, err := h.deps.Distribution(r.Context())
	if err != nil {
		writeStoreError(w, "api.get_distribution", err)
		return
	}
	writeJSON(w, http.StatusOK, bins)
}

// MetadataDependencies defines the interface for run metadata.
type MetadataDependencies interface {
	Metadata(ctx context.Context) (publish.Metadata, error)
}

// MetadataHandler handles run metadata requests.
type MetadataHandler struct {
	deps MetadataDependencies
}

// NewMetadataHandler creates a new metadata handler.
func NewMetadataHandler(deps MetadataDependencies) *MetadataHandler {
	return &MetadataHandler{deps: deps}
}

// HandleGetMetadata handles GET /metadata.
func (h *MetadataHandler) HandleGetMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := h.deps.Metadata(r.Context())
	if err != nil {
		writeStoreError(w, "api.get_metadata", err)
		return
	}
	writeJSON(w, http.StatusOK, meta)
}
