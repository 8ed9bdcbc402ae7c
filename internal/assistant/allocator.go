package assistant

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
)

// DefaultMaxRepairPasses bounds the repair loop. A healthy store converges in
// two passes: one that writes and one that confirms nothing is left.
const DefaultMaxRepairPasses = 3

// Assignment records one identifier given to a previously unassigned record.
type Assignment struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	ID    string `json:"id"`
}

// RepairResult summarises a repair run.
type RepairResult struct {
	Passes   int          `json:"passes"`
	Writes   int          `json:"writes"`
	Assigned []Assignment `json:"assigned,omitempty"`
}

// Allocator gives every device record a non-empty identifier that is unique
// across all device types.
//
// Repair runs as a loop that stops at the first pass making no writes. It
// never calls ApplyChanges itself, so it cannot re-enter through the store's
// apply hooks. Repair and Replace are serialised against each other, so a
// write never lands between a pass's read and its write-back.
type Allocator struct {
	store     PropertyStore
	owner     string
	maxPasses int

	mu     sync.Mutex
	logger Logger
}

// NewAllocator creates an allocator for ownerID's records in store.
func NewAllocator(store PropertyStore, ownerID string) *Allocator {
	return &Allocator{
		store:     store,
		owner:     ownerID,
		maxPasses: DefaultMaxRepairPasses,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the allocator.
func (a *Allocator) SetLogger(logger Logger) {
	a.logger = logger
}

// SetMaxPasses sets the pass bound. Values below 2 are raised to 2 so a
// writing pass can always be confirmed.
func (a *Allocator) SetMaxPasses(n int) {
	if n < 2 {
		n = 2
	}
	a.mu.Lock()
	a.maxPasses = n
	a.mu.Unlock()
}

// Repair reads the records of every named type, assigns max+1, max+2, ...
// to records without an identifier (type order outer, record order inner)
// and writes back each modified type once.
//
// A duplicate non-empty identifier aborts the pass before anything is
// written and returns ErrDuplicateIdentifier. Numeric identifiers are
// compared by value and zero counts as unassigned. When the highest
// identifier is math.MaxInt64 and a record still needs one, the pass fails
// with ErrInvalidConfiguration, again without writing. If the store still needs writes
// after the pass bound, ErrRepairNotConverged is returned.
func (a *Allocator) Repair(ctx context.Context, types []string) (RepairResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var result RepairResult
	for result.Passes < a.maxPasses {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Passes++

		writes, assigned, err := a.pass(ctx, types)
		result.Writes += writes
		result.Assigned = append(result.Assigned, assigned...)
		if err != nil {
			return result, err
		}
		if writes == 0 {
			a.logger.Debug("identifier repair converged", "passes", result.Passes, "writes", result.Writes)
			return result, nil
		}
	}

	a.logger.Error("identifier repair did not converge", "passes", result.Passes, "writes", result.Writes)
	return result, fmt.Errorf("%w after %d passes", ErrRepairNotConverged, result.Passes)
}

// Replace writes the records of one device type while no repair is running.
func (a *Allocator) Replace(ctx context.Context, deviceType string, records []Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	key := PropertyKey(deviceType)
	if err := a.store.SetProperty(ctx, a.owner, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// pass performs one read-assign-write round and returns the number of writes.
func (a *Allocator) pass(ctx context.Context, types []string) (int, []Assignment, error) {
	cat, err := loadCatalogue(ctx, a.store, a.owner, types)
	if err != nil {
		return 0, nil, err
	}
	ids, err := cat.identifiers()
	if err != nil {
		return 0, nil, err
	}

	highest := highestIdentifier(ids)
	var given []Assignment
	modified := make([]bool, len(cat))

	for i, t := range cat {
		for j, rec := range t.records {
			if assigned(rec.ID()) {
				continue
			}
			if highest == math.MaxInt64 {
				return 0, nil, fmt.Errorf("%w: %s record %d: identifier space exhausted after %d",
					ErrInvalidConfiguration, t.name, j, highest)
			}
			highest++
			id := strconv.FormatInt(highest, 10)
			rec[KeyID] = id
			modified[i] = true
			given = append(given, Assignment{Type: t.name, Index: j, ID: id})
		}
	}

	// Encode everything first so an encoding failure leaves the store untouched.
	pending := make(map[int][]byte)
	for i, t := range cat {
		if !modified[i] {
			continue
		}
		data, err := encodeRecords(t.records)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: %w", t.name, err)
		}
		pending[i] = data
	}

	writes := 0
	for i, t := range cat {
		data, ok := pending[i]
		if !ok {
			continue
		}
		key := PropertyKey(t.name)
		if err := a.store.SetProperty(ctx, a.owner, key, data); err != nil {
			return writes, given, fmt.Errorf("writing %s: %w", key, err)
		}
		writes++
	}

	for _, as := range given {
		a.logger.Debug("device identifier assigned", "type", as.Type, "index", as.Index, "id", as.ID)
	}
	return writes, given, nil
}
