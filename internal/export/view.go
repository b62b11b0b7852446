package export

import (
	"time"

	"github.com/google/uuid"
)

// BatchView is the read model the exporters render from. It is assembled by
// the batch service after the batch transaction commits, so exporters never
// touch the database.
type BatchView struct {
	BatchID        uuid.UUID
	OrderCode      string
	ProductName    string
	TotalUnits     int
	BufferUnits    int
	TotalUniqueQRs int
	MastersCount   int
	UnitsPerMaster int
	BufferPer1000  int
	Codes          []string
	Masters        []string
	GeneratedAt    time.Time
}

// MasterFor returns the master-carton identifier a unit at position seq
// (zero-based generation order) belongs to. Assignment chunks the ordered
// code list by units_per_master.
func (v BatchView) MasterFor(seq int) (string, bool) {
	if v.UnitsPerMaster <= 0 {
		return "", false
	}
	idx := seq / v.UnitsPerMaster
	if idx < 0 || idx >= len(v.Masters) {
		return "", false
	}
	return v.Masters[idx], true
}
