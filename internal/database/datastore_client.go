package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/locvowork/timekeeper/internal/logger"
)

// documentEntity is the single Datastore entity holding the shared document.
type documentEntity struct {
	Payload     string    `datastore:"payload,noindex"`
	LastUpdated time.Time `datastore:"lastUpdated"`
}

// DatastoreClient stores the shared document in Cloud Datastore. Datastore has
// no push notifications, so Subscribe polls the entity.
type DatastoreClient struct {
	projectID    string
	kind         string
	name         string
	pollInterval time.Duration
	client       *datastore.Client
}

// NewDatastoreClient creates an unconnected client for kind/name.
func NewDatastoreClient(projectID, kind, name string, pollInterval time.Duration) *DatastoreClient {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &DatastoreClient{
		projectID:    projectID,
		kind:         kind,
		name:         name,
		pollInterval: pollInterval,
	}
}

func (dc *DatastoreClient) Connect(ctx context.Context) error {
	if dc.client != nil {
		return nil
	}
	client, err := datastore.NewClient(ctx, dc.projectID)
	if err != nil {
		return fmt.Errorf("connect datastore: %w", err)
	}
	dc.client = client
	return nil
}

func (dc *DatastoreClient) Disconnect() error {
	if dc.client == nil {
		return nil
	}
	err := dc.client.Close()
	dc.client = nil
	return err
}

func (dc *DatastoreClient) key() *datastore.Key {
	return datastore.NameKey(dc.kind, dc.name, nil)
}

func (dc *DatastoreClient) readEntity(ctx context.Context) (*documentEntity, error) {
	if dc.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}
	var entity documentEntity
	err := dc.client.Get(ctx, dc.key(), &entity)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return nil, domain.ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// Read returns the current document or domain.ErrDocumentNotFound.
func (dc *DatastoreClient) Read(ctx context.Context) (*domain.Document, error) {
	entity, err := dc.readEntity(ctx)
	if err != nil {
		return nil, err
	}
	return decodeDocument(entity.Payload)
}

// Write replaces the whole document.
func (dc *DatastoreClient) Write(ctx context.Context, doc domain.Document) error {
	if dc.client == nil {
		return fmt.Errorf("datastore client is nil")
	}
	payload, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	_, err = dc.client.Put(ctx, dc.key(), &documentEntity{
		Payload:     payload,
		LastUpdated: time.Now().UTC(),
	})
	return err
}

// Subscribe polls the entity and emits a snapshot on the first read and
// whenever the stored payload changes.
func (dc *DatastoreClient) Subscribe(ctx context.Context) (<-chan domain.Snapshot, func(), error) {
	if dc.client == nil {
		return nil, nil, fmt.Errorf("datastore client is nil")
	}
	ctx, cancel := context.WithCancel(ctx)
	out := make(chan domain.Snapshot, 1)

	go func() {
		defer close(out)
		ticker := time.NewTicker(dc.pollInterval)
		defer ticker.Stop()

		var (
			last   string
			seen   bool
			exists bool
		)
		for {
			snap, payload := dc.poll(ctx)
			var emit bool
			switch {
			case snap.Err != nil:
				logger.WarnLog(ctx, "datastore poll failed: %v", snap.Err)
				emit = true
			case !snap.Exists:
				emit = !seen || exists
			default:
				emit = !seen || !exists || payload != last
			}
			if snap.Err == nil {
				seen, exists, last = true, snap.Exists, payload
			}
			if emit {
				select {
				case out <- snap:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	return out, cancel, nil
}

func (dc *DatastoreClient) poll(ctx context.Context) (domain.Snapshot, string) {
	entity, err := dc.readEntity(ctx)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return domain.Snapshot{Exists: false}, ""
	}
	if err != nil {
		return domain.Snapshot{Err: err}, ""
	}
	doc, err := decodeDocument(entity.Payload)
	if err != nil {
		return domain.Snapshot{Err: err}, ""
	}
	return domain.Snapshot{Document: doc, Exists: true}, entity.Payload
}
