package batches

import (
	"time"

	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/internal/export"
)

// CreateBatchRequest is the JSON body for POST /api/v1/batches. product_id
// and total_units are required and must agree with the referenced order;
// dry_run returns the sizing estimate without persisting anything.
type CreateBatchRequest struct {
	OrderID    string `json:"order_id" validate:"required,uuid"`
	ProductID  string `json:"product_id" validate:"required,uuid"`
	TotalUnits int    `json:"total_units" validate:"required,gt=0"`
	DryRun     bool   `json:"dry_run"`
}

// CreateInput is the typed service input after request validation.
type CreateInput struct {
	TenantID   uuid.UUID
	OrderID    uuid.UUID
	ProductID  uuid.UUID
	TotalUnits int
	DryRun     bool
}

// Sizing echoes the computed quantities in every batch response.
type Sizing struct {
	TotalUnits     int `json:"total_units"`
	BufferUnits    int `json:"buffer_units"`
	TotalUniqueQRs int `json:"total_unique_qrs"`
	MastersCount   int `json:"masters_count"`
}

// ExportStatus reports the post-commit export outcome per artifact kind.
// A failed artifact degrades this block, never the request itself.
type ExportStatus struct {
	CSVGenerated bool                    `json:"csv_generated"`
	PDFGenerated bool                    `json:"pdf_generated"`
	Artifacts    []export.ArtifactResult `json:"artifacts,omitempty"`
}

// CreateBatchResponse is the data payload for a create call. BatchID,
// CreatedAt and ExportStatus are nil in dry-run mode.
type CreateBatchResponse struct {
	BatchID      *uuid.UUID    `json:"batch_id,omitempty"`
	OrderID      uuid.UUID     `json:"order_id"`
	ProductID    uuid.UUID     `json:"product_id"`
	Status       string        `json:"status,omitempty"`
	DryRun       bool          `json:"dry_run"`
	Sizing       Sizing        `json:"sizing"`
	ExportStatus *ExportStatus `json:"export_status,omitempty"`
	CreatedAt    *time.Time    `json:"created_at,omitempty"`
}

// BatchDetail is the data payload for a read call. Identifier sets are
// reported as counts; the full sets live in the exported manifest.
type BatchDetail struct {
	BatchID     uuid.UUID `json:"batch_id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	Status      string    `json:"status"`
	Sizing      Sizing    `json:"sizing"`
	CodeCount   int       `json:"code_count"`
	MasterCount int       `json:"master_count"`
	CreatedAt   time.Time `json:"created_at"`
}
