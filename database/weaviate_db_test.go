package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/dreamer-be/types"
	"github.com/weaviate/weaviate/entities/models"
)

func TestBuildWhere_Empty(t *testing.T) {
	assert.Nil(t, buildWhere(DocumentFilter{}))
}

func TestBuildWhere_SingleClause(t *testing.T) {
	where := buildWhere(DocumentFilter{Namespace: "Project_Alpha"})
	require.NotNil(t, where)
	clause := where.String()
	assert.Contains(t, clause, "namespace")
	assert.Contains(t, clause, "Project_Alpha")
}

func TestBuildWhere_CombinesClauses(t *testing.T) {
	where := buildWhere(DocumentFilter{
		Namespace: "Project_Alpha",
		Status:    types.StatusDreamed,
		DocType:   types.DocTypeTriplet,
	})
	require.NotNil(t, where)
	clause := where.String()
	assert.Contains(t, clause, "And")
	assert.Contains(t, clause, "namespace")
	assert.Contains(t, clause, "dreamed")
	assert.Contains(t, clause, "triplet")
}

func TestBuildWhere_EntityMatchesHeadOrTail(t *testing.T) {
	where := buildWhere(DocumentFilter{Entity: "Jenkins"})
	require.NotNil(t, where)
	clause := where.String()
	assert.Contains(t, clause, "Or")
	assert.Contains(t, clause, "head")
	assert.Contains(t, clause, "tail")
	assert.Contains(t, clause, "Jenkins")
}

func TestDocProperties(t *testing.T) {
	doc := types.NewTriplet("Alice Chen", "LEADS", "Project_Alpha", "Project_Alpha", "")
	props := docProperties(doc)

	assert.Equal(t, "Alice Chen", props["head"])
	assert.Equal(t, "LEADS", props["relation"])
	assert.Equal(t, "Project_Alpha", props["tail"])
	assert.Equal(t, "triplet", props["docType"])
	assert.Equal(t, "Project_Alpha", props["namespace"])
	assert.Equal(t, "raw", props["status"])
	assert.Equal(t, "Alice Chen leads Project_Alpha", props["content"])
	assert.Equal(t, doc.Timestamp, props["timestamp"])
}

func TestParseDocument(t *testing.T) {
	raw := map[string]interface{}{
		"content":   "Alice Chen leads Project_Alpha",
		"head":      "Alice Chen",
		"relation":  "LEADS",
		"tail":      "Project_Alpha",
		"docType":   "triplet",
		"namespace": "Project_Alpha",
		"status":    "dreamed",
		"timestamp": float64(1700000000000),
		"_additional": map[string]interface{}{
			"id": "0c7f2f9a-1234-4d56-8e9f-000000000001",
		},
	}

	doc := parseDocument(raw)
	assert.Equal(t, "0c7f2f9a-1234-4d56-8e9f-000000000001", doc.ID)
	assert.Equal(t, "Alice Chen", doc.Head)
	assert.Equal(t, types.DocTypeTriplet, doc.DocType)
	assert.Equal(t, types.StatusDreamed, doc.Status)
	assert.Equal(t, int64(1700000000000), doc.Timestamp)
}

func TestParseDocument_MissingFields(t *testing.T) {
	doc := parseDocument(map[string]interface{}{"head": "Jenkins"})
	assert.Equal(t, "Jenkins", doc.Head)
	assert.Empty(t, doc.ID)
	assert.Zero(t, doc.Timestamp)
}

func TestParseGetResponse(t *testing.T) {
	s := &WeaviateStore{className: "KnowledgeDocument"}

	docs := s.parseGetResponse(map[string]models.JSONObject{
		"Get": map[string]interface{}{
			"KnowledgeDocument": []interface{}{
				map[string]interface{}{"head": "Alice Chen", "namespace": "Project_Alpha"},
				map[string]interface{}{"head": "Jenkins", "namespace": "Shared_Infra"},
			},
		},
	})
	require.Len(t, docs, 2)
	assert.Equal(t, "Alice Chen", docs[0].Head)
	assert.Equal(t, "Shared_Infra", docs[1].Namespace)

	// Malformed or empty payloads degrade to no results.
	assert.Empty(t, s.parseGetResponse(map[string]models.JSONObject{}))
	assert.Empty(t, s.parseGetResponse(map[string]models.JSONObject{"Get": "bogus"}))
}

func TestKnowledgeClassSchema(t *testing.T) {
	class := knowledgeClass("KnowledgeDocument")

	assert.Equal(t, "KnowledgeDocument", class.Class)
	assert.Equal(t, "none", class.Vectorizer)
	assert.Equal(t, "hnsw", class.VectorIndexType)

	names := make(map[string]string)
	for _, prop := range class.Properties {
		names[prop.Name] = prop.DataType[0]
	}
	assert.Equal(t, "text", names["content"])
	assert.Equal(t, "string", names["namespace"])
	assert.Equal(t, "string", names["status"])
	assert.Equal(t, "int", names["timestamp"])
}
