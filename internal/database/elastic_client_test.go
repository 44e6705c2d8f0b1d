package database

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/locvowork/timekeeper/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type esRequest struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

// esStub answers the handful of Elasticsearch endpoints the client uses and
// records every request except health checks.
type esStub struct {
	mu         sync.Mutex
	requests   []esRequest
	indexFound bool
	bulkBody   string
	searchBody string
}

func (s *esStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/" || r.URL.Path == "" {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, `{}`)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, esRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Body: body})
	s.mu.Unlock()

	switch {
	case r.Method == http.MethodHead && r.URL.Path == "/attendance":
		if s.indexFound {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusNotFound)
		}
	case r.Method == http.MethodPut && r.URL.Path == "/attendance":
		io.WriteString(w, `{"acknowledged":true,"index":"attendance"}`)
	case r.URL.Path == "/_bulk":
		io.WriteString(w, s.bulkBody)
	case r.URL.Path == "/attendance/_search":
		io.WriteString(w, s.searchBody)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{}`)
	}
}

func (s *esStub) recorded() []esRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]esRequest(nil), s.requests...)
}

func newStubbedClient(t *testing.T, stub *esStub) *ElasticSearchClient {
	t.Helper()
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	es, err := NewElasticSearchClient(srv.URL, "attendance")
	require.NoError(t, err)
	return es
}

func ndjsonLines(t *testing.T, body []byte) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	sc := bufio.NewScanner(bytes.NewReader(body))
	for sc.Scan() {
		if len(bytes.TrimSpace(sc.Bytes())) == 0 {
			continue
		}
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestElasticEnsureIndexCreatesMissingIndex(t *testing.T) {
	stub := &esStub{}
	es := newStubbedClient(t, stub)

	require.NoError(t, es.EnsureIndex(context.Background()))

	reqs := stub.recorded()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodHead, reqs[0].Method)
	assert.Equal(t, http.MethodPut, reqs[1].Method)
	assert.Contains(t, string(reqs[1].Body), `"checkIn"`)
}

func TestElasticEnsureIndexKeepsExistingIndex(t *testing.T) {
	stub := &esStub{indexFound: true}
	es := newStubbedClient(t, stub)

	require.NoError(t, es.EnsureIndex(context.Background()))
	assert.Len(t, stub.recorded(), 1)
}

func TestElasticIndexDay(t *testing.T) {
	stub := &esStub{bulkBody: `{"took":1,"errors":false,"items":[
		{"index":{"_index":"attendance","_id":"2024-03-01|Mina","status":201}},
		{"index":{"_index":"attendance","_id":"2024-03-01|Omar","status":201}}]}`}
	es := newStubbedClient(t, stub)
	in := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	absent := "غياب"

	err := es.IndexDay(context.Background(), "2024-03-01", []domain.AttendanceRecord{
		{Name: "Mina", Department: "IT", CheckIn: &in},
		{Name: "Omar", Department: "HSE", Status: &absent},
	})
	require.NoError(t, err)

	reqs := stub.recorded()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Contains(t, reqs[0].Query, "refresh=true")

	lines := ndjsonLines(t, reqs[0].Body)
	require.Len(t, lines, 4)
	action := lines[0]["index"].(map[string]interface{})
	assert.Equal(t, "attendance", action["_index"])
	assert.Equal(t, "2024-03-01|Mina", action["_id"])
	assert.Equal(t, "2024-03-01", lines[1]["date"])
	assert.Equal(t, "Mina", lines[1]["name"])
	assert.Equal(t, "2024-03-01T08:00:00Z", lines[1]["checkIn"])
	assert.Equal(t, "2024-03-01|Omar", lines[2]["index"].(map[string]interface{})["_id"])
	assert.Equal(t, absent, lines[3]["status"])
}

func TestElasticIndexDay_ReportsItemErrors(t *testing.T) {
	stub := &esStub{bulkBody: `{"took":1,"errors":true,"items":[
		{"index":{"_index":"attendance","_id":"2024-03-01|Mina","status":400,
		"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [checkIn]"}}}]}`}
	es := newStubbedClient(t, stub)

	err := es.IndexDay(context.Background(), "2024-03-01", []domain.AttendanceRecord{{Name: "Mina"}})
	assert.ErrorContains(t, err, "failed to parse field [checkIn]")
}

func TestElasticIndexDay_EmptyDaySendsNothing(t *testing.T) {
	stub := &esStub{}
	es := newStubbedClient(t, stub)

	require.NoError(t, es.IndexDay(context.Background(), "2024-03-01", nil))
	assert.Empty(t, stub.recorded())
}

func TestElasticSearchByName(t *testing.T) {
	stub := &esStub{searchBody: `{"took":2,"timed_out":false,"hits":{"total":{"value":2,"relation":"eq"},"hits":[
		{"_index":"attendance","_id":"2024-03-02|Mina","_source":{"date":"2024-03-02","name":"Mina","department":"IT","job":"","checkIn":"2024-03-02T08:00:00Z","checkOut":null}},
		{"_index":"attendance","_id":"2024-03-01|Mina","_source":{"date":"2024-03-01","name":"Mina","department":"IT","job":"","checkIn":null,"checkOut":null,"status":"إجازة"}}]}}`}
	es := newStubbedClient(t, stub)

	got, err := es.SearchByName(context.Background(), "mina", 10)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-02", got[0].Date)
	assert.Equal(t, "Mina", got[0].Name)
	require.NotNil(t, got[0].CheckIn)
	assert.True(t, time.Date(2024, 3, 2, 8, 0, 0, 0, time.UTC).Equal(*got[0].CheckIn))
	assert.Equal(t, "إجازة", got[1].StatusText())

	reqs := stub.recorded()
	require.Len(t, reqs, 1)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(reqs[0].Body, &body))
	assert.Equal(t, 10.0, body["size"])
	match := body["query"].(map[string]interface{})["match"].(map[string]interface{})
	assert.Contains(t, match, "name")
	sortJSON, err := json.Marshal(body["sort"])
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":{"order":"desc"}}]`, string(sortJSON))
}
