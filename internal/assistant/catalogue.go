package assistant

import (
	"context"
	"fmt"
	"strconv"
)

// typeRecords holds the records of one device type as read from the store.
type typeRecords struct {
	name    string
	records []Record
}

// catalogue is a fresh read of every device type's records, in registration order.
type catalogue []typeRecords

// loadCatalogue reads the records of every named type.
func loadCatalogue(ctx context.Context, store PropertyReader, owner string, names []string) (catalogue, error) {
	cat := make(catalogue, 0, len(names))
	for _, name := range names {
		key := PropertyKey(name)
		raw, err := store.Property(ctx, owner, key)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		records, err := decodeRecords(raw)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", key, err)
		}
		cat = append(cat, typeRecords{name: name, records: records})
	}
	return cat, nil
}

// identifiers returns every assigned identifier, in canonical form, mapped
// to its device type. It fails on the first identifier held by two records.
func (c catalogue) identifiers() (map[string]string, error) {
	seen := make(map[string]string)
	for _, t := range c {
		for _, rec := range t.records {
			id := rec.ID()
			if !assigned(id) {
				continue
			}
			key := canonicalID(id)
			if owner, dup := seen[key]; dup {
				return nil, fmt.Errorf("%w: %q is used by %s and %s", ErrDuplicateIdentifier, id, owner, t.name)
			}
			seen[key] = t.name
		}
	}
	return seen, nil
}

// find returns the index of the type and the record holding id.
// Unassigned records never match. Numeric identifiers match by value.
func (c catalogue) find(id string) (int, Record, bool) {
	if !assigned(id) {
		return 0, nil, false
	}
	key := canonicalID(id)
	for i, t := range c {
		for _, rec := range t.records {
			if assigned(rec.ID()) && canonicalID(rec.ID()) == key {
				return i, rec, true
			}
		}
	}
	return 0, nil, false
}

// count returns the number of records across all types.
func (c catalogue) count() int {
	n := 0
	for _, t := range c {
		n += len(t.records)
	}
	return n
}

// canonicalID returns the decimal form of a numeric identifier ("01" and
// "+1" become "1"). Other identifiers are returned unchanged.
func canonicalID(id string) string {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return id
	}
	return strconv.FormatInt(n, 10)
}

// assigned reports whether id names a device. Empty and numeric zero do not.
func assigned(id string) bool {
	return id != "" && canonicalID(id) != "0"
}

// highestIdentifier returns the largest numeric identifier, 0 if there is none.
// Identifiers that are not non-negative integers are ignored.
func highestIdentifier(ids map[string]string) int64 {
	var highest int64
	for id := range ids {
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil || n < 0 {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest
}
