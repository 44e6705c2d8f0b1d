package domain

import "context"

// DocumentStore is the remote shared document service. Exactly one document is
// used for the whole system; every read and write replaces it wholesale.
type DocumentStore interface {
	Connect(ctx context.Context) error
	Disconnect() error
	// Read returns ErrDocumentNotFound when the document does not exist yet.
	Read(ctx context.Context) (*Document, error)
	Write(ctx context.Context, doc Document) error
	// Subscribe delivers snapshots until ctx is cancelled or unsubscribe is called.
	Subscribe(ctx context.Context) (<-chan Snapshot, func(), error)
}

// KeyValueStore is the local persistent string storage.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// StateRepository persists the roster and history locally.
type StateRepository interface {
	Load(ctx context.Context) (State, bool, error)
	SaveEmployees(ctx context.Context, employees []Employee) error
	SaveHistory(ctx context.Context, history History) error
	Clear(ctx context.Context) error
}

// AttendanceIndex is an optional search index over materialized attendance.
type AttendanceIndex interface {
	IndexDay(ctx context.Context, date string, records []AttendanceRecord) error
	SearchByName(ctx context.Context, name string, limit int) ([]IndexedRecord, error)
}

// IndexedRecord is one attendance record as returned by the search index.
type IndexedRecord struct {
	Date string `json:"date"`
	AttendanceRecord
}
