package types_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tieubaoca/dreamer-be/types"
)

func TestTripletPhrase(t *testing.T) {
	tests := []struct {
		head, relation, tail string
		want                 string
	}{
		{"Alice Chen", "LEADS", "Project_Alpha", "Alice Chen leads Project_Alpha"},
		{"Project_Beta", "DEPENDS_ON", "Jenkins", "Project_Beta depends on Jenkins"},
		{"Grafana", "MONITORS", "Project_Alpha", "Grafana monitors Project_Alpha"},
		{"Vault", "STORES_SECRETS_FOR", "Project_Beta", "Vault stores secrets for Project_Beta"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, types.TripletPhrase(tt.head, tt.relation, tt.tail))
	}
}

func TestNewTriplet(t *testing.T) {
	doc := types.NewTriplet("Alice Chen", "LEADS", "Project_Alpha", "Project_Alpha", "")

	assert.Equal(t, types.DocTypeTriplet, doc.DocType)
	assert.Equal(t, types.StatusRaw, doc.Status)
	assert.Equal(t, "Alice Chen leads Project_Alpha", doc.Content)
	assert.Nil(t, doc.Vector)
	assert.Greater(t, doc.Timestamp, int64(0))

	// Explicit content wins over the synthesized phrase.
	doc = types.NewTriplet("Jenkins", "SERVES", "Project_Beta", "Shared_Infra", "Jenkins runs the Beta pipeline")
	assert.Equal(t, "Jenkins runs the Beta pipeline", doc.Content)
}

func TestNewNote(t *testing.T) {
	long := strings.Repeat("a", 150)
	doc := types.NewNote("Sprint Planning", long, "Project_Alpha")

	assert.Equal(t, types.DocTypeNote, doc.DocType)
	assert.Equal(t, types.NoteRelation, doc.Relation)
	assert.Equal(t, "Sprint Planning", doc.Head)
	assert.Equal(t, long, doc.Content)
	assert.Equal(t, long[:types.NoteTailLength], doc.Tail)
	assert.Equal(t, types.StatusRaw, doc.Status)

	// Short notes keep the full text in the tail.
	doc = types.NewNote("Topic", "short text", "Project_Alpha")
	assert.Equal(t, "short text", doc.Tail)
}

func TestEmbeddingText(t *testing.T) {
	triplet := types.NewTriplet("Project_Alpha", "DEPENDS_ON", "Jenkins", "Project_Alpha", "custom display text")
	// Triplets always embed the canonical phrase, never the display content.
	assert.Equal(t, "Project_Alpha depends on Jenkins", triplet.EmbeddingText())

	short := types.NewNote("Topic", "a short note", "Project_Alpha")
	assert.Equal(t, "a short note", short.EmbeddingText())

	long := types.NewNote("Topic", strings.Repeat("b", 600), "Project_Alpha")
	assert.Len(t, long.EmbeddingText(), types.NoteEmbedLength)
}

func TestValidate(t *testing.T) {
	valid := types.NewTriplet("Alice", "LEADS", "Project_Alpha", "Project_Alpha", "")
	require.NoError(t, valid.Validate())

	note := types.NewNote("Topic", "some text", "Project_Alpha")
	require.NoError(t, note.Validate())

	tests := []struct {
		name string
		doc  *types.KnowledgeDocument
	}{
		{"missing namespace", types.NewTriplet("Alice", "LEADS", "Project_Alpha", "", "")},
		{"missing head", types.NewTriplet("", "LEADS", "Project_Alpha", "Project_Alpha", "")},
		{"missing relation", types.NewTriplet("Alice", "", "Project_Alpha", "Project_Alpha", "")},
		{"missing tail", types.NewTriplet("Alice", "LEADS", "", "Project_Alpha", "")},
		{"note without topic", types.NewNote("", "text", "Project_Alpha")},
		{"note without text", types.NewNote("Topic", "", "Project_Alpha")},
		{"unknown doc type", &types.KnowledgeDocument{Namespace: "Project_Alpha", DocType: "graph"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.doc.Validate(), types.ErrInvalidInput)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", types.Truncate("abc", 5))
	assert.Equal(t, "abc", types.Truncate("abc", 3))
	assert.Equal(t, "ab", types.Truncate("abc", 2))

	// Characters, not bytes: a rune at the boundary is kept whole.
	assert.Equal(t, "héllo", types.Truncate("héllo", 5))
	assert.Equal(t, "hé", types.Truncate("héllo", 2))
	assert.Equal(t, "日本", types.Truncate("日本語", 2))
}

func TestTruncate_NeverSplitsRune(t *testing.T) {
	text := strings.Repeat("a", 99) + "é…"

	note := types.NewNote("Topic", text, "Project_Alpha")
	assert.True(t, utf8.ValidString(note.Tail))
	assert.Equal(t, strings.Repeat("a", 99)+"é", note.Tail)

	long := strings.Repeat("x", 499) + "…と続く"
	embed := types.Truncate(long, types.NoteEmbedLength)
	assert.True(t, utf8.ValidString(embed))
	assert.Equal(t, strings.Repeat("x", 499)+"…", embed)
}
