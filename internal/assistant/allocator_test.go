package assistant

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairAssignsInRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistry(t, &fakeType{name: "LightSwitch"}, &fakeType{name: "LightDimmer"})
	store.put(t, testOwner, "LightSwitch", Record{"ID": "", "Name": "Hall"})
	store.put(t, testOwner, "LightDimmer", Record{"ID": "", "Name": "Lounge"})

	result, err := r.RepairIdentifiers(ctx)
	require.NoError(t, err)

	assert.Equal(t, "1", store.get(t, testOwner, "LightSwitch")[0].ID())
	assert.Equal(t, "2", store.get(t, testOwner, "LightDimmer")[0].ID())
	assert.Equal(t, 1, store.writes[PropertyKey("LightSwitch")])
	assert.Equal(t, 1, store.writes[PropertyKey("LightDimmer")])
	assert.Equal(t, 2, result.Writes)
	assert.Equal(t, 2, result.Passes)
	assert.Equal(t, []Assignment{
		{Type: "LightSwitch", Index: 0, ID: "1"},
		{Type: "LightDimmer", Index: 0, ID: "2"},
	}, result.Assigned)
}

func TestRepairContinuesFromHighest(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistry(t, &fakeType{name: "A"}, &fakeType{name: "B"})
	store.put(t, testOwner, "A",
		Record{"ID": "", "Name": "first"},
		Record{"ID": "7", "Name": "seven"},
		Record{"ID": "", "Name": "second"},
	)
	store.put(t, testOwner, "B", Record{"ID": "kitchen", "Name": "not numeric"}, Record{"ID": "", "Name": "third"})

	_, err := r.RepairIdentifiers(ctx)
	require.NoError(t, err)

	a := store.get(t, testOwner, "A")
	b := store.get(t, testOwner, "B")
	assert.Equal(t, []string{"8", "7", "9"}, []string{a[0].ID(), a[1].ID(), a[2].ID()})
	assert.Equal(t, []string{"kitchen", "10"}, []string{b[0].ID(), b[1].ID()})
}

func TestRepairIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistry(t, &fakeType{name: "A"}, &fakeType{name: "B"})
	store.put(t, testOwner, "A", Record{"ID": "", "Name": "a"}, Record{"ID": "", "Name": "b"})
	store.put(t, testOwner, "B", Record{"ID": "4", "Name": "c"})

	_, err := r.RepairIdentifiers(ctx)
	require.NoError(t, err)
	before := store.totalWrites()

	result, err := r.RepairIdentifiers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Writes)
	assert.Equal(t, 1, result.Passes)
	assert.Equal(t, before, store.totalWrites())
}

func TestRepairProducesUniqueIdentifiers(t *testing.T) {
	ctx := context.Background()
	types := []DeviceType{&fakeType{name: "A"}, &fakeType{name: "B"}, &fakeType{name: "C"}}
	r, store := newTestRegistry(t, types...)
	for i, dt := range types {
		var records []Record
		for j := 0; j < 4; j++ {
			id := ""
			if (i+j)%3 == 0 {
				id = fmt.Sprintf("%d", 100+i*10+j)
			}
			records = append(records, Record{"ID": id, "Name": fmt.Sprintf("%s-%d", dt.Name(), j)})
		}
		store.put(t, testOwner, dt.Name(), records...)
	}

	_, err := r.RepairIdentifiers(ctx)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, dt := range types {
		for _, rec := range store.get(t, testOwner, dt.Name()) {
			require.NotEmpty(t, rec.ID())
			assert.False(t, seen[rec.ID()], "identifier %s assigned twice", rec.ID())
			seen[rec.ID()] = true
		}
	}
	assert.Len(t, seen, 12)
}

func TestRepairRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistry(t, &fakeType{name: "A"}, &fakeType{name: "B"})
	store.put(t, testOwner, "A", Record{"ID": "5", "Name": "a"}, Record{"ID": "", "Name": "new"})
	store.put(t, testOwner, "B", Record{"ID": "5", "Name": "b"})

	result, err := r.RepairIdentifiers(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
	assert.Contains(t, err.Error(), `"5"`)
	assert.Equal(t, 0, result.Writes)
	assert.Equal(t, 0, store.totalWrites())
	assert.Equal(t, "", store.get(t, testOwner, "A")[1].ID())
}

// regrowingStore empties an identifier after every write, so repair never settles.
type regrowingStore struct {
	*memStore
	t *testing.T
}

func (s *regrowingStore) SetProperty(ctx context.Context, owner, key string, value []byte) error {
	if err := s.memStore.SetProperty(ctx, owner, key, value); err != nil {
		return err
	}
	records := s.get(s.t, owner, "A")
	records = append(records, Record{"ID": "", "Name": "again"})
	s.put(s.t, owner, "A", records...)
	return nil
}

func TestRepairIsBounded(t *testing.T) {
	ctx := context.Background()
	store := &regrowingStore{memStore: newMemStore(), t: t}
	store.put(t, testOwner, "A", Record{"ID": "", "Name": "a"})

	alloc := NewAllocator(store, testOwner)
	alloc.SetMaxPasses(4)

	result, err := alloc.Repair(ctx, []string{"A"})
	assert.ErrorIs(t, err, ErrRepairNotConverged)
	assert.Equal(t, 4, result.Passes)
	assert.Equal(t, 4, result.Writes)
}

func TestRepairWriteFailure(t *testing.T) {
	ctx := context.Background()
	r, store := newTestRegistry(t, &fakeType{name: "A"})
	store.put(t, testOwner, "A", Record{"ID": "", "Name": "a"})
	store.writeErr = errors.New("disk full")

	_, err := r.RepairIdentifiers(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestRepairHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r, _ := newTestRegistry(t, &fakeType{name: "A"})
	_, err := r.RepairIdentifiers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSetMaxPassesFloor(t *testing.T) {
	alloc := NewAllocator(newMemStore(), testOwner)
	alloc.SetMaxPasses(0)
	assert.Equal(t, 2, alloc.maxPasses)
}

func TestRepairStopsAtIdentifierLimit(t *testing.T) {
	ctx := context.Background()
	top := strconv.FormatInt(math.MaxInt64, 10)
	r, store := newTestRegistry(t, &fakeType{name: "A"})
	store.put(t, testOwner, "A", Record{"ID": top, "Name": "last"}, Record{"ID": "", "Name": "new"})

	result, err := r.RepairIdentifiers(ctx)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	assert.Equal(t, 0, result.Writes)
	assert.Equal(t, 0, store.totalWrites())
	assert.Equal(t, "", store.get(t, testOwner, "A")[1].ID())

	// A full catalogue without gaps is still valid.
	store.put(t, testOwner, "A", Record{"ID": top, "Name": "last"})
	_, err = r.RepairIdentifiers(ctx)
	assert.NoError(t, err)
}

func TestRepairComparesNumericIdentifiersByValue(t *testing.T) {
	ctx := context.Background()

	t.Run("leading zero clashes", func(t *testing.T) {
		r, store := newTestRegistry(t, &fakeType{name: "A"}, &fakeType{name: "B"})
		store.put(t, testOwner, "A", Record{"ID": "1", "Name": "a"})
		store.put(t, testOwner, "B", Record{"ID": "01", "Name": "b"})

		_, err := r.RepairIdentifiers(ctx)
		assert.ErrorIs(t, err, ErrDuplicateIdentifier)
		assert.Equal(t, 0, store.totalWrites())
	})

	t.Run("zero is unassigned", func(t *testing.T) {
		r, store := newTestRegistry(t, &fakeType{name: "A"})
		store.put(t, testOwner, "A", Record{"ID": "1", "Name": "a"}, Record{"ID": 0, "Name": "b"})

		result, err := r.RepairIdentifiers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []Assignment{{Type: "A", Index: 1, ID: "2"}}, result.Assigned)
		assert.Equal(t, "2", store.get(t, testOwner, "A")[1].ID())
	})
}

// gatedStore holds the first property read until release is closed.
type gatedStore struct {
	*memStore
	once    sync.Once
	reading chan struct{}
	release chan struct{}
}

func (s *gatedStore) Property(ctx context.Context, owner, key string) ([]byte, error) {
	s.once.Do(func() {
		close(s.reading)
		<-s.release
	})
	return s.memStore.Property(ctx, owner, key)
}

func TestSetRecordsWaitsForRepair(t *testing.T) {
	ctx := context.Background()
	store := &gatedStore{
		memStore: newMemStore(),
		reading:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	r := NewRegistry(store, testOwner)
	require.NoError(t, r.Register(&fakeType{name: "A"}))
	store.put(t, testOwner, "A", Record{"ID": "", "Name": "old"})

	repaired := make(chan error, 1)
	go func() {
		_, err := r.RepairIdentifiers(ctx)
		repaired <- err
	}()
	<-store.reading

	written := make(chan error, 1)
	go func() {
		written <- r.SetRecords(ctx, "A", []Record{{"ID": "", "Name": "new"}})
	}()

	select {
	case err := <-written:
		t.Fatalf("SetRecords returned during repair: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(store.release)
	require.NoError(t, <-repaired)
	require.NoError(t, <-written)

	records := store.get(t, testOwner, "A")
	require.Len(t, records, 1)
	assert.Equal(t, "new", records[0].Name())
	assert.Equal(t, "", records[0].ID())
}
