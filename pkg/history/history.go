// Package history records composition runs.
//
// Each run of the batch renderer produces one [Record] listing every
// category with its outcome. Records are kept in a [Store]: a JSON Lines
// file by default, or a MongoDB collection when several machines share a
// history.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultLimit is the number of records List returns when limit <= 0.
const DefaultLimit = 20

// Record describes one run.
type Record struct {
	ID         string           `json:"id" bson:"_id"`
	Started    time.Time        `json:"started" bson:"started"`
	Duration   time.Duration    `json:"duration" bson:"duration"`
	PhotoRoot  string           `json:"photo_root" bson:"photo_root"`
	Background string           `json:"background" bson:"background"`
	OutputDir  string           `json:"output_dir" bson:"output_dir"`
	Preview    bool             `json:"preview,omitempty" bson:"preview,omitempty"`
	Categories []CategoryRecord `json:"categories" bson:"categories"`
}

// CategoryRecord is the outcome of one category.
type CategoryRecord struct {
	Name     string   `json:"name" bson:"name"`
	Output   string   `json:"output,omitempty" bson:"output,omitempty"`
	Photos   int      `json:"photos" bson:"photos"`
	Placed   int      `json:"placed" bson:"placed"`
	Missing  []string `json:"missing,omitempty" bson:"missing,omitempty"`
	Leftover int      `json:"leftover,omitempty" bson:"leftover,omitempty"`
	Fallback bool     `json:"fallback,omitempty" bson:"fallback,omitempty"`
	Error    string   `json:"error,omitempty" bson:"error,omitempty"`
}

// NewRecord returns a record with a fresh ID started now.
func NewRecord() Record {
	return Record{ID: uuid.NewString(), Started: time.Now().UTC()}
}

// Failed counts categories that did not produce an output.
func (r Record) Failed() int {
	n := 0
	for _, c := range r.Categories {
		if c.Error != "" {
			n++
		}
	}
	return n
}

// Store persists records.
type Store interface {
	// Add appends a record.
	Add(ctx context.Context, r Record) error

	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)

	Close() error
}

// NullStore discards records.
type NullStore struct{}

// NewNullStore returns a store that keeps nothing.
func NewNullStore() Store { return NullStore{} }

func (NullStore) Add(context.Context, Record) error          { return nil }
func (NullStore) List(context.Context, int) ([]Record, error) { return nil, nil }
func (NullStore) Close() error                                { return nil }
