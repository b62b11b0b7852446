package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"
)

var manifestHeader = []string{"code", "master_id", "unit_index_within_master", "generated_at"}

// BuildManifest renders the print-shop CSV: one row per unit code, in
// generation order, with its master assignment. The unit index restarts at 1
// inside each master carton.
func BuildManifest(view BatchView) ([]byte, error) {
	if len(view.Codes) == 0 {
		return nil, fmt.Errorf("batch %s has no codes to export", view.BatchID)
	}
	if view.UnitsPerMaster <= 0 {
		return nil, fmt.Errorf("units per master must be positive, got %d", view.UnitsPerMaster)
	}

	generatedAt := view.GeneratedAt.UTC().Format(time.RFC3339)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(manifestHeader); err != nil {
		return nil, fmt.Errorf("writing manifest header: %w", err)
	}

	for i, code := range view.Codes {
		master, ok := view.MasterFor(i)
		if !ok {
			return nil, fmt.Errorf("no master carton for unit %d of %d", i+1, len(view.Codes))
		}
		unitIndex := i%view.UnitsPerMaster + 1
		row := []string{code, master, strconv.Itoa(unitIndex), generatedAt}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("writing manifest row %d: %w", i+1, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flushing manifest: %w", err)
	}
	return buf.Bytes(), nil
}
