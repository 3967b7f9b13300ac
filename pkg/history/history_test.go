package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewRecord(t *testing.T) {
	a, b := NewRecord(), NewRecord()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids %q %q", a.ID, b.ID)
	}
	if a.Started.IsZero() {
		t.Error("Started not set")
	}
}

func TestRecordFailed(t *testing.T) {
	r := Record{Categories: []CategoryRecord{
		{Name: "a"},
		{Name: "b", Error: "LAYOUT_INFEASIBLE: no width fits"},
		{Name: "c", Missing: []string{"x.jpg"}},
	}}
	if got := r.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "history.jsonl"))
	if err != nil {
		t.Fatal(err)
	}

	if recs, err := s.List(ctx, 0); err != nil || len(recs) != 0 {
		t.Fatalf("empty List = %v, %v", recs, err)
	}

	for i, name := range []string{"first", "second", "third"} {
		r := NewRecord()
		r.PhotoRoot = name
		r.Started = time.Date(2026, 1, 1, i, 0, 0, 0, time.UTC)
		r.Categories = []CategoryRecord{{Name: "Class 1", Photos: 7, Placed: 7}}
		if err := s.Add(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	recs, err := s.List(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].PhotoRoot != "third" || recs[1].PhotoRoot != "second" {
		t.Fatalf("List(2) = %+v", recs)
	}
	if recs[0].Categories[0].Placed != 7 {
		t.Errorf("categories not round-tripped: %+v", recs[0].Categories)
	}
}

func TestFileStoreSkipsCorruptLines(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.jsonl")
	s, err := NewFileStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Add(ctx, NewRecord()); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString(`{"id": "trunc`)
	f.Close()

	recs, err := s.List(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Errorf("got %d records, want 1", len(recs))
	}
}

func TestNullStore(t *testing.T) {
	s := NewNullStore()
	if err := s.Add(context.Background(), NewRecord()); err != nil {
		t.Fatal(err)
	}
	if recs, _ := s.List(context.Background(), 5); len(recs) != 0 {
		t.Errorf("NullStore kept %d records", len(recs))
	}
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("PORTRAITGRID_TEST_MONGO")
	if uri == "" {
		t.Skip("PORTRAITGRID_TEST_MONGO not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, uri, "portraitgrid_test")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	defer s.coll.Drop(ctx)

	r := NewRecord()
	r.Categories = []CategoryRecord{{Name: "Class 1", Photos: 3, Placed: 3}}
	if err := s.Add(ctx, r); err != nil {
		t.Fatal(err)
	}
	recs, err := s.List(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != r.ID {
		t.Errorf("List = %+v", recs)
	}
}
