package turnlog

import (
	"context"
	"fmt"
	"testing"
)

func TestInMemoryStoreRecordAndRecent(t *testing.T) {
	s := NewInMemoryStore(10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		err := s.Record(ctx, Turn{MemberID: "m-1", Outcome: fmt.Sprintf("outcome-%d", i)})
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	turns, err := s.Recent(ctx, 50)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 3 {
		t.Fatalf("len(turns) = %d, want 3", len(turns))
	}
	if turns[0].Outcome != "outcome-2" {
		t.Fatalf("turns[0].Outcome = %q, want newest first", turns[0].Outcome)
	}
	if turns[0].ID == "" || turns[0].CreatedAt.IsZero() {
		t.Fatalf("Record should fill ID and CreatedAt: %+v", turns[0])
	}
}

func TestInMemoryStoreBoundedByCapacity(t *testing.T) {
	s := NewInMemoryStore(2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if err := s.Record(ctx, Turn{Outcome: fmt.Sprintf("outcome-%d", i)}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	turns, err := s.Recent(ctx, 50)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want capacity 2", len(turns))
	}
	if turns[0].Outcome != "outcome-4" || turns[1].Outcome != "outcome-3" {
		t.Fatalf("unexpected retained turns: %+v", turns)
	}
}

func TestInMemoryStoreRecentLimit(t *testing.T) {
	s := NewInMemoryStore(10)
	ctx := context.Background()
	for i := 0; i < 6; i++ {
		if err := s.Record(ctx, Turn{Outcome: fmt.Sprintf("outcome-%d", i)}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	turns, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("len(turns) = %d, want 2", len(turns))
	}
}
