package enums

import "fmt"

// BatchStatus tracks a generation run. A batch is written exactly once and
// never mutated by this service; downstream printing moves it forward.
type BatchStatus string

const (
	BatchStatusCreated  BatchStatus = "created"
	BatchStatusPrinting BatchStatus = "printing"
	BatchStatusShipped  BatchStatus = "shipped"
)

var validBatchStatuses = []BatchStatus{
	BatchStatusCreated,
	BatchStatusPrinting,
	BatchStatusShipped,
}

func (s BatchStatus) String() string {
	return string(s)
}

// IsValid reports whether the status is known.
func (s BatchStatus) IsValid() bool {
	for _, candidate := range validBatchStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseBatchStatus converts raw input into a BatchStatus.
func ParseBatchStatus(value string) (BatchStatus, error) {
	for _, candidate := range validBatchStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid batch status %q", value)
}
