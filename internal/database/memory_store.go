package database

import (
	"context"
	"sync"

	"github.com/locvowork/timekeeper/internal/domain"
)

// MemoryStore is an in-process document store used in offline mode and tests.
// Like a real subscription it notifies every subscriber on each write,
// including the writer's own.
type MemoryStore struct {
	mu       sync.Mutex
	payload  string
	exists   bool
	writes   int
	writeErr error
	subs     map[int]chan domain.Snapshot
	nextID   int
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[int]chan domain.Snapshot)}
}

func (m *MemoryStore) Connect(ctx context.Context) error { return nil }

func (m *MemoryStore) Disconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, ch := range m.subs {
		close(ch)
		delete(m.subs, id)
	}
	return nil
}

func (m *MemoryStore) Read(ctx context.Context) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.exists {
		return nil, domain.ErrDocumentNotFound
	}
	return decodeDocument(m.payload)
}

func (m *MemoryStore) Write(ctx context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		err := m.writeErr
		m.writeErr = nil
		return err
	}
	payload, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	m.payload = payload
	m.exists = true
	m.broadcastLocked()
	return nil
}

func (m *MemoryStore) Subscribe(ctx context.Context) (<-chan domain.Snapshot, func(), error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	ch := make(chan domain.Snapshot, 8)
	m.subs[id] = ch
	deliver(ch, m.snapshotLocked())
	m.mu.Unlock()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if c, ok := m.subs[id]; ok {
				close(c)
				delete(m.subs, id)
			}
		})
	}
	go func() {
		<-ctx.Done()
		unsubscribe()
	}()
	return ch, unsubscribe, nil
}

// FailNextWrite makes the next Write return err without storing anything.
func (m *MemoryStore) FailNextWrite(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErr = err
}

// Writes returns the number of write attempts so far.
func (m *MemoryStore) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

func (m *MemoryStore) snapshotLocked() domain.Snapshot {
	if !m.exists {
		return domain.Snapshot{Exists: false}
	}
	doc, err := decodeDocument(m.payload)
	if err != nil {
		return domain.Snapshot{Err: err}
	}
	return domain.Snapshot{Document: doc, Exists: true}
}

func (m *MemoryStore) broadcastLocked() {
	for _, ch := range m.subs {
		deliver(ch, m.snapshotLocked())
	}
}

// deliver never blocks: a full buffer drops its oldest snapshot since only the
// latest document matters.
func deliver(ch chan domain.Snapshot, snap domain.Snapshot) {
	for {
		select {
		case ch <- snap:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
