package outbox

import "gorm.io/gorm/clause"

// lockForPublish takes a row lock and skips rows another publisher replica
// already holds, so concurrent publishers never double-deliver a batch.
func lockForPublish() clause.Locking {
	return clause.Locking{
		Strength: clause.LockingStrengthUpdate,
		Options:  clause.LockingOptionsSkipLocked,
	}
}
