// Package sequence hands out the monotonic max+1 numbers used for
// accountNumber, tripNumber and logNumber.
package sequence

import (
	"fmt"
	"sync"

	"gorm.io/gorm"
)

// Allocator assigns sequence numbers for one entity table. Reading the
// current max and inserting are two steps, so concurrent writers must hold
// the allocator for the whole transaction that persists the number.
type Allocator struct {
	mu     sync.Mutex
	table  string
	column string
}

func New(table, column string) *Allocator {
	return &Allocator{table: table, column: column}
}

// Acquire serializes allocation until the returned release func runs.
// Hold it across the transaction that inserts the numbered row.
func (a *Allocator) Acquire() (release func()) {
	a.mu.Lock()
	return a.mu.Unlock
}

// Next computes max+1 inside the caller's transaction. Returns 1 when the
// table holds no rows yet.
func (a *Allocator) Next(tx *gorm.DB) (uint, error) {
	var current uint
	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", a.column, a.table)
	if err := tx.Raw(query).Scan(&current).Error; err != nil {
		return 0, fmt.Errorf("next %s.%s: %w", a.table, a.column, err)
	}
	return current + 1, nil
}
