package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/elastic/go-elasticsearch/v9"

	"github.com/Skotchmaster/clientes_api/internal/models"
)

const IndexName = "clientes"

// ErrUnavailable is returned by searches when no index backend is configured.
var ErrUnavailable = errors.New("search index not configured")

type Index interface {
	IndexCliente(ctx context.Context, doc models.ClienteDoc) error
	DeleteCliente(ctx context.Context, personaID uint) error
	SearchClientes(ctx context.Context, query string, from, size int) (int64, []models.ClienteDoc, error)
}

func NewClient(url, user, password string) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{url},
		Username:  user,
		Password:  password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: new client: %w", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("elasticsearch: info: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		body, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("elasticsearch: info: %s: %s", res.Status(), body)
	}
	return client, nil
}

type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	if index == "" {
		index = IndexName
	}
	return &ESIndex{es: es, index: index}
}

func docID(personaID uint) string {
	return strconv.FormatUint(uint64(personaID), 10)
}

func (i *ESIndex) IndexCliente(ctx context.Context, doc models.ClienteDoc) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("index cliente: encode: %w", err)
	}

	res, err := i.es.Index(
		i.index,
		&buf,
		i.es.Index.WithContext(ctx),
		i.es.Index.WithDocumentID(docID(doc.PersonaID)),
	)
	if err != nil {
		return fmt.Errorf("index cliente: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index cliente: %s", res.Status())
	}
	return nil
}

func (i *ESIndex) DeleteCliente(ctx context.Context, personaID uint) error {
	res, err := i.es.Delete(
		i.index,
		docID(personaID),
		i.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete cliente doc: %w", err)
	}
	defer res.Body.Close()
	// a client created before indexing was enabled has no document
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("delete cliente doc: %s", res.Status())
	}
	return nil
}

func (i *ESIndex) SearchClientes(ctx context.Context, query string, from, size int) (int64, []models.ClienteDoc, error) {
	body := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    []string{"nombre^2", "apellido_paterno"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode: %w", err)
	}

	res, err := i.es.Search(
		i.es.Search.WithContext(ctx),
		i.es.Search.WithIndex(i.index),
		i.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return 0, nil, fmt.Errorf("search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.ClienteDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode: %w", err)
	}

	docs := make([]models.ClienteDoc, len(r.Hits.Hits))
	for n, hit := range r.Hits.Hits {
		docs[n] = hit.Source
	}
	return r.Hits.Total.Value, docs, nil
}

// Nop ignores writes and reports searches as unavailable.
type Nop struct{}

func (Nop) IndexCliente(context.Context, models.ClienteDoc) error { return nil }
func (Nop) DeleteCliente(context.Context, uint) error             { return nil }
func (Nop) SearchClientes(context.Context, string, int, int) (int64, []models.ClienteDoc, error) {
	return 0, nil, ErrUnavailable
}

// Memory is an in-process index matching on case-insensitive substrings.
type Memory struct {
	mu   sync.Mutex
	docs map[uint]models.ClienteDoc
}

func NewMemory() *Memory {
	return &Memory{docs: map[uint]models.ClienteDoc{}}
}

func (m *Memory) IndexCliente(_ context.Context, doc models.ClienteDoc) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[doc.PersonaID] = doc
	return nil
}

func (m *Memory) DeleteCliente(_ context.Context, personaID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, personaID)
	return nil
}

func (m *Memory) Get(personaID uint) (models.ClienteDoc, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[personaID]
	return doc, ok
}

func (m *Memory) SearchClientes(_ context.Context, query string, from, size int) (int64, []models.ClienteDoc, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := strings.ToLower(query)
	var hits []models.ClienteDoc
	for _, d := range m.docs {
		if strings.Contains(strings.ToLower(d.Nombre), q) || strings.Contains(strings.ToLower(d.ApellidoPaterno), q) {
			hits = append(hits, d)
		}
	}
	sort.Slice(hits, func(a, b int) bool { return hits[a].PersonaID < hits[b].PersonaID })

	total := int64(len(hits))
	if from < 0 {
		from = 0
	}
	if size < 0 {
		size = 0
	}
	if from >= len(hits) {
		return total, []models.ClienteDoc{}, nil
	}
	end := from + size
	if end < from || end > len(hits) {
		end = len(hits)
	}
	return total, hits[from:end], nil
}
