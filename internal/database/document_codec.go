package database

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
)

func encodeDocument(doc domain.Document) (string, error) {
	if doc.Employees == nil {
		doc.Employees = []domain.Employee{}
	}
	if doc.History == nil {
		doc.History = domain.History{}
	}
	if doc.LastUpdated == "" {
		doc.LastUpdated = time.Now().UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(b), nil
}

func decodeDocument(payload string) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &doc, nil
}
