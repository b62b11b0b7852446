package enums

// OutboxEventType enumerates the events appended to the outbox table.
type OutboxEventType string

const (
	OutboxEventBatchCreated OutboxEventType = "batch.created"
	OutboxEventPOSent       OutboxEventType = "order.po_sent"
)

func (t OutboxEventType) String() string {
	return string(t)
}

// IsValid reports whether the event type is known.
func (t OutboxEventType) IsValid() bool {
	return t == OutboxEventBatchCreated || t == OutboxEventPOSent
}

// OutboxAggregateType names the entity an outbox event belongs to.
type OutboxAggregateType string

const (
	OutboxAggregateBatch OutboxAggregateType = "batch"
	OutboxAggregateOrder OutboxAggregateType = "order"
)

func (t OutboxAggregateType) String() string {
	return string(t)
}
