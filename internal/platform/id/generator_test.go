package id

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTimeOrdered_NewID(t *testing.T) {
	t.Parallel()

	gen := NewTimeOrdered()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct ids, got %s twice", first)
	}
	if first > second {
		t.Fatalf("expected ids to sort by creation, got %s then %s", first, second)
	}
	if v, err := uuid.Parse(first); err != nil || v.Version() != 7 {
		t.Fatalf("expected uuid v7, got %q: %v", first, err)
	}
}

func TestCreatedAt(t *testing.T) {
	t.Parallel()

	before := time.Now().Add(-time.Second)
	raw, err := NewTimeOrdered().NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	got, ok := CreatedAt(raw)
	if !ok {
		t.Fatalf("expected timestamp from %q", raw)
	}
	if got.Before(before) || got.After(time.Now().Add(time.Second)) {
		t.Fatalf("timestamp %s out of range", got)
	}

	if _, ok := CreatedAt(uuid.NewString()); ok {
		t.Fatalf("expected v4 uuid to be rejected")
	}
	if _, ok := CreatedAt("not-a-uuid"); ok {
		t.Fatalf("expected garbage to be rejected")
	}
}
