package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/olivere/elastic/v7"
)

const attendanceMapping = `{
	"mappings": {
		"properties": {
			"date":       {"type": "keyword"},
			"name":       {"type": "text", "fields": {"raw": {"type": "keyword"}}},
			"department": {"type": "keyword"},
			"job":        {"type": "keyword"},
			"checkIn":    {"type": "date"},
			"checkOut":   {"type": "date"},
			"status":     {"type": "keyword"}
		}
	}
}`

// ElasticSearchClient indexes materialized attendance days for name search.
type ElasticSearchClient struct {
	client *elastic.Client
	index  string
}

// NewElasticSearchClient creates a new client for Elasticsearch 7.x.
func NewElasticSearchClient(url, index string) (*ElasticSearchClient, error) {
	client, err := elastic.NewClient(
		elastic.SetURL(url),
		elastic.SetSniff(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	return &ElasticSearchClient{client: client, index: index}, nil
}

// EnsureIndex creates the attendance index with its mapping when missing.
func (es *ElasticSearchClient) EnsureIndex(ctx context.Context) error {
	exists, err := es.client.IndexExists(es.index).Do(ctx)
	if err != nil {
		return fmt.Errorf("check index %s: %w", es.index, err)
	}
	if exists {
		return nil
	}
	if _, err := es.client.CreateIndex(es.index).BodyString(attendanceMapping).Do(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", es.index, err)
	}
	return nil
}

func recordID(date, name string) string {
	return date + "|" + name
}

// IndexDay replaces the indexed records of one date.
func (es *ElasticSearchClient) IndexDay(ctx context.Context, date string, records []domain.AttendanceRecord) error {
	bulkRequest := es.client.Bulk()
	for _, rec := range records {
		req := elastic.NewBulkIndexRequest().
			Index(es.index).
			Id(recordID(date, rec.Name)).
			Doc(domain.IndexedRecord{Date: date, AttendanceRecord: rec})
		bulkRequest = bulkRequest.Add(req)
	}

	if bulkRequest.NumberOfActions() == 0 {
		return nil
	}

	bulkResponse, err := bulkRequest.Refresh("true").Do(ctx)
	if err != nil {
		return fmt.Errorf("bulk index failed: %w", err)
	}

	if bulkResponse.Errors {
		for _, item := range bulkResponse.Items {
			for _, op := range item {
				if op.Error != nil {
					return fmt.Errorf("bulk item failed: %s", op.Error.Reason)
				}
			}
		}
	}
	return nil
}

// SearchByName performs a full-text match on the employee name, newest first.
func (es *ElasticSearchClient) SearchByName(ctx context.Context, name string, limit int) ([]domain.IndexedRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	searchResult, err := es.client.Search().
		Index(es.index).
		Query(elastic.NewMatchQuery("name", name)).
		Sort("date", false).
		Size(limit).
		Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	records := make([]domain.IndexedRecord, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		var rec domain.IndexedRecord
		if err := json.Unmarshal(hit.Source, &rec); err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", hit.Id, err)
		}
		records = append(records, rec)
	}
	return records, nil
}
