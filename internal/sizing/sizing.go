package sizing

import (
	"fmt"

	pkgerrors "github.com/veritrace/qrbatch-backend/pkg/errors"
)

// Result carries the derived quantities for one batch.
type Result struct {
	TotalUnits     int
	BufferUnits    int
	TotalUniqueQRs int
	MastersCount   int
}

// Compute derives buffer and master-carton quantities from the order size and
// the tenant's packaging settings. Buffer accrues per complete 1000 units
// (floor); masters round up so the tail units still get a carton.
func Compute(totalUnits, unitsPerMaster, bufferPer1000 int) (Result, error) {
	if totalUnits <= 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "total units must be a positive integer").
			WithDetails(map[string]any{"total_units": totalUnits})
	}
	if bufferPer1000 < 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodePrecondition, "packaging config has a negative buffer rate").
			WithDetails(map[string]any{"buffer_per_1000": bufferPer1000})
	}
	if unitsPerMaster <= 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodePrecondition,
			fmt.Sprintf("packaging config units_per_master must be positive, got %d", unitsPerMaster)).
			WithDetails(map[string]any{"units_per_master": unitsPerMaster})
	}

	buffer := (totalUnits / 1000) * bufferPer1000
	total := totalUnits + buffer
	masters := (total + unitsPerMaster - 1) / unitsPerMaster

	return Result{
		TotalUnits:     totalUnits,
		BufferUnits:    buffer,
		TotalUniqueQRs: total,
		MastersCount:   masters,
	}, nil
}
