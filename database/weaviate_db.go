package database

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tieubaoca/dreamer-be/config"
	"github.com/tieubaoca/dreamer-be/types"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"
)

// knowledgeClass mirrors the persisted schema: content is full-text, the
// graph fields are exact-match keywords, vectors are cosine-indexed and
// supplied by the dream cycle (vectorizer "none"), timestamp is integer
// milliseconds.
func knowledgeClass(name string) *models.Class {
	return &models.Class{
		Class: name,
		Properties: []*models.Property{
			{Name: "content", DataType: []string{"text"}},
			{Name: "head", DataType: []string{"string"}},
			{Name: "relation", DataType: []string{"string"}},
			{Name: "tail", DataType: []string{"string"}},
			{Name: "docType", DataType: []string{"string"}},
			{Name: "namespace", DataType: []string{"string"}},
			{Name: "status", DataType: []string{"string"}},
			{Name: "timestamp", DataType: []string{"int"}},
		},
		Vectorizer:      "none",
		VectorIndexType: "hnsw",
		VectorIndexConfig: map[string]interface{}{
			"distance": "cosine",
		},
	}
}

var documentFields = []graphql.Field{
	{Name: "content"},
	{Name: "head"},
	{Name: "relation"},
	{Name: "tail"},
	{Name: "docType"},
	{Name: "namespace"},
	{Name: "status"},
	{Name: "timestamp"},
	{Name: "_additional", Fields: []graphql.Field{{Name: "id"}}},
}

// WeaviateStore implements DocumentStore on a Weaviate class.
type WeaviateStore struct {
	client    *weaviate.Client
	className string
}

// NewWeaviateStore connects to Weaviate and ensures the knowledge document
// class exists.
func NewWeaviateStore(cfg config.WeaviateStoreConfig) (*WeaviateStore, error) {
	var scheme string
	if strings.Contains(cfg.Host, "https") {
		scheme = "https"
	} else {
		scheme = "http"
	}
	host := strings.TrimPrefix(cfg.Host, scheme+"://")

	clientCfg := weaviate.Config{
		Host:             host,
		Scheme:           scheme,
		ConnectionClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.APIKey != "" {
		clientCfg.AuthConfig = auth.ApiKey{
			Value: cfg.APIKey,
		}
	}

	client, err := weaviate.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create weaviate client: %v", err)
	}

	s := &WeaviateStore{
		client:    client,
		className: cfg.ClassName,
	}
	if err := s.ensureClass(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *WeaviateStore) ensureClass(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to get schema: %v", types.ErrStoreUnavailable, err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.className {
			return nil
		}
	}
	err = s.client.Schema().ClassCreator().WithClass(knowledgeClass(s.className)).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to create class %s: %v", types.ErrStoreUnavailable, s.className, err)
	}
	return nil
}

// Reset deletes and recreates the class. Administrative operation, not used
// by the core pipeline.
func (s *WeaviateStore) Reset(ctx context.Context) error {
	err := s.client.Schema().ClassDeleter().WithClassName(s.className).Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: failed to delete class %s: %v", types.ErrStoreUnavailable, s.className, err)
	}
	return s.ensureClass(ctx)
}

func (s *WeaviateStore) Create(ctx context.Context, doc *types.KnowledgeDocument) (string, error) {
	id := doc.ID
	if id == "" {
		id = uuid.New().String()
	}
	_, err := s.client.Data().Creator().
		WithClassName(s.className).
		WithID(id).
		WithProperties(docProperties(doc)).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create document: %v", types.ErrStoreUnavailable, err)
	}
	return id, nil
}

func (s *WeaviateStore) Query(ctx context.Context, filter DocumentFilter, sort *SortOption, limit int) ([]types.KnowledgeDocument, error) {
	getBuilder := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(documentFields...)
	if where := buildWhere(filter); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}
	if sort != nil {
		order := graphql.Asc
		if sort.Descending {
			order = graphql.Desc
		}
		getBuilder = getBuilder.WithSort(graphql.Sort{Path: []string{sort.Field}, Order: order})
	}
	if limit > 0 {
		getBuilder = getBuilder.WithLimit(limit)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: query failed: %v", types.ErrStoreUnavailable, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: query failed: %v", types.ErrStoreUnavailable, result.Errors[0].Message)
	}
	return s.parseGetResponse(result.Data), nil
}

func (s *WeaviateStore) Aggregate(ctx context.Context, filter DocumentFilter) (map[string]int, error) {
	aggBuilder := s.client.GraphQL().Aggregate().
		WithClassName(s.className).
		WithGroupBy("namespace").
		WithFields(
			graphql.Field{Name: "groupedBy", Fields: []graphql.Field{{Name: "value"}}},
			graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}},
		)
	if where := buildWhere(filter); where != nil {
		aggBuilder = aggBuilder.WithWhere(where)
	}

	result, err := aggBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate failed: %v", types.ErrStoreUnavailable, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: aggregate failed: %v", types.ErrStoreUnavailable, result.Errors[0].Message)
	}

	counts := make(map[string]int)
	groups, ok := aggregateGroups(result.Data, s.className)
	if !ok {
		return counts, nil
	}
	for _, item := range groups {
		group, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		groupedBy, _ := group["groupedBy"].(map[string]interface{})
		meta, _ := group["meta"].(map[string]interface{})
		if groupedBy == nil || meta == nil {
			continue
		}
		name, _ := groupedBy["value"].(string)
		count, _ := meta["count"].(float64)
		if name != "" {
			counts[name] = int(count)
		}
	}
	return counts, nil
}

// VectorSearch runs nearVector with the where clause attached to the same
// query, so the namespace restriction is evaluated before ranking. The
// candidatePool argument maps onto the HNSW ef search parameter, which
// Weaviate tunes per index; it is accepted for stores that take it per
// query.
func (s *WeaviateStore) VectorSearch(ctx context.Context, vector []float32, k, candidatePool int, filter DocumentFilter) ([]types.KnowledgeDocument, error) {
	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)

	getBuilder := s.client.GraphQL().Get().
		WithClassName(s.className).
		WithFields(documentFields...).
		WithNearVector(nearVector).
		WithLimit(k)
	if where := buildWhere(filter); where != nil {
		getBuilder = getBuilder.WithWhere(where)
	}

	result, err := getBuilder.Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: vector search failed: %v", types.ErrStoreUnavailable, err)
	}
	if result.Errors != nil {
		return nil, fmt.Errorf("%w: vector search failed: %v", types.ErrStoreUnavailable, result.Errors[0].Message)
	}
	return s.parseGetResponse(result.Data), nil
}

func (s *WeaviateStore) PartialUpdate(ctx context.Context, id string, fields UpdateFields) error {
	updater := s.client.Data().Updater().
		WithClassName(s.className).
		WithID(id).
		WithProperties(map[string]interface{}{
			"status": string(fields.Status),
		}).
		WithMerge()
	if fields.Vector != nil {
		updater = updater.WithVector(fields.Vector)
	}
	if err := updater.Do(ctx); err != nil {
		return fmt.Errorf("%w: failed to update document %s: %v", types.ErrStoreUnavailable, id, err)
	}
	return nil
}

func (s *WeaviateStore) Count(ctx context.Context, filter DocumentFilter) (int, error) {
	aggBuilder := s.client.GraphQL().Aggregate().
		WithClassName(s.className).
		WithFields(graphql.Field{Name: "meta", Fields: []graphql.Field{{Name: "count"}}})
	if where := buildWhere(filter); where != nil {
		aggBuilder = aggBuilder.WithWhere(where)
	}

	result, err := aggBuilder.Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: count failed: %v", types.ErrStoreUnavailable, err)
	}
	if result.Errors != nil {
		return 0, fmt.Errorf("%w: count failed: %v", types.ErrStoreUnavailable, result.Errors[0].Message)
	}

	groups, ok := aggregateGroups(result.Data, s.className)
	if !ok || len(groups) == 0 {
		return 0, nil
	}
	group, ok := groups[0].(map[string]interface{})
	if !ok {
		return 0, nil
	}
	meta, _ := group["meta"].(map[string]interface{})
	if meta == nil {
		return 0, nil
	}
	count, _ := meta["count"].(float64)
	return int(count), nil
}

// buildWhere converts a DocumentFilter into a Weaviate where tree. Returns
// nil when the filter is empty.
func buildWhere(f DocumentFilter) *filters.WhereBuilder {
	var operands []*filters.WhereBuilder

	if f.Namespace != "" {
		operands = append(operands, filters.Where().
			WithPath([]string{"namespace"}).
			WithOperator(filters.Equal).
			WithValueString(f.Namespace))
	}
	if f.Status != "" {
		operands = append(operands, filters.Where().
			WithPath([]string{"status"}).
			WithOperator(filters.Equal).
			WithValueString(string(f.Status)))
	}
	if f.DocType != "" {
		operands = append(operands, filters.Where().
			WithPath([]string{"docType"}).
			WithOperator(filters.Equal).
			WithValueString(string(f.DocType)))
	}
	if f.Entity != "" {
		operands = append(operands, filters.Where().
			WithOperator(filters.Or).
			WithOperands([]*filters.WhereBuilder{
				filters.Where().
					WithPath([]string{"head"}).
					WithOperator(filters.Equal).
					WithValueString(f.Entity),
				filters.Where().
					WithPath([]string{"tail"}).
					WithOperator(filters.Equal).
					WithValueString(f.Entity),
			}))
	}

	switch len(operands) {
	case 0:
		return nil
	case 1:
		return operands[0]
	default:
		return filters.Where().WithOperator(filters.And).WithOperands(operands)
	}
}

func docProperties(doc *types.KnowledgeDocument) map[string]interface{} {
	return map[string]interface{}{
		"content":   doc.Content,
		"head":      doc.Head,
		"relation":  doc.Relation,
		"tail":      doc.Tail,
		"docType":   string(doc.DocType),
		"namespace": doc.Namespace,
		"status":    string(doc.Status),
		"timestamp": doc.Timestamp,
	}
}

func (s *WeaviateStore) parseGetResponse(data map[string]models.JSONObject) []types.KnowledgeDocument {
	var docs []types.KnowledgeDocument
	get, ok := data["Get"].(map[string]interface{})
	if !ok {
		return docs
	}
	items, ok := get[s.className].([]interface{})
	if !ok {
		return docs
	}
	for _, item := range items {
		raw, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		docs = append(docs, parseDocument(raw))
	}
	return docs
}

func parseDocument(raw map[string]interface{}) types.KnowledgeDocument {
	doc := types.KnowledgeDocument{
		Content:   stringProp(raw, "content"),
		Head:      stringProp(raw, "head"),
		Relation:  stringProp(raw, "relation"),
		Tail:      stringProp(raw, "tail"),
		DocType:   types.DocumentType(stringProp(raw, "docType")),
		Namespace: stringProp(raw, "namespace"),
		Status:    types.DocumentStatus(stringProp(raw, "status")),
	}
	if ts, ok := raw["timestamp"].(float64); ok {
		doc.Timestamp = int64(ts)
	}
	if additional, ok := raw["_additional"].(map[string]interface{}); ok {
		doc.ID, _ = additional["id"].(string)
	}
	return doc
}

func stringProp(raw map[string]interface{}, key string) string {
	v, _ := raw[key].(string)
	return v
}

func aggregateGroups(data map[string]models.JSONObject, className string) ([]interface{}, bool) {
	agg, ok := data["Aggregate"].(map[string]interface{})
	if !ok {
		return nil, false
	}
	groups, ok := agg[className].([]interface{})
	return groups, ok
}
