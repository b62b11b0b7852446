package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/veritrace/qrbatch-backend/api/middleware"
	"github.com/veritrace/qrbatch-backend/api/responses"
	"github.com/veritrace/qrbatch-backend/api/validators"
	"github.com/veritrace/qrbatch-backend/internal/batches"
	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
	"github.com/veritrace/qrbatch-backend/pkg/logger"
)

// BatchCreate runs the full generation pipeline: sizing, identifier
// generation, transactional persistence, then export. Dry-run requests stop
// after sizing.
func BatchCreate(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batches.CreateBatchRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := buildCreateInput(r, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusCreated
		if resp.DryRun {
			status = http.StatusOK
		}
		responses.WriteSuccessStatus(r.Context(), w, status, resp)
	}
}

// BatchGet returns one batch's persisted sizing and counts, tenant-scoped.
func BatchGet(svc batches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		batchID, err := uuid.Parse(chi.URLParam(r, "batchID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "batch id must be a valid uuid"))
			return
		}

		detail, err := svc.Get(r.Context(), middleware.TenantIDFromContext(r.Context()), batchID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(r.Context(), w, detail)
	}
}

func buildCreateInput(r *http.Request, req batches.CreateBatchRequest) (batches.CreateInput, error) {
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		return batches.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "order_id must be a valid uuid")
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return batches.CreateInput{}, pkgerrors.New(pkgerrors.CodeValidation, "product_id must be a valid uuid")
	}

	return batches.CreateInput{
		TenantID:   middleware.TenantIDFromContext(r.Context()),
		OrderID:    orderID,
		ProductID:  productID,
		TotalUnits: req.TotalUnits,
		DryRun:     req.DryRun,
	}, nil
}
