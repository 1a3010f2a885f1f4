package types

import (
	"fmt"
	"strings"
	"time"
)

// DocumentType distinguishes the two document shapes in the knowledge graph.
type DocumentType string

const (
	DocTypeTriplet DocumentType = "triplet"
	DocTypeNote    DocumentType = "note"
)

// DocumentStatus is the per-document consolidation state. A document is
// created raw and promoted to dreamed exactly once; there is no transition
// back.
type DocumentStatus string

const (
	StatusRaw     DocumentStatus = "raw"
	StatusDreamed DocumentStatus = "dreamed"
)

// NoteRelation is the fixed relation used for note documents, linking a
// topic entity to its free-text content.
const NoteRelation = "HAS_NOTE"

const (
	// NoteTailLength is how many characters of a note's content are copied
	// into the tail field as a compact keyword-indexed preview.
	NoteTailLength = 100

	// NoteEmbedLength caps, in characters, how much note text is sent to
	// the embedding provider.
	NoteEmbedLength = 500
)

// KnowledgeDocument is the sole persisted entity: either a head-relation-tail
// triplet or a free-text note, always scoped to a namespace.
type KnowledgeDocument struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	Head      string         `json:"head"`
	Relation  string         `json:"relation"`
	Tail      string         `json:"tail"`
	DocType   DocumentType   `json:"doc_type"`
	Namespace string         `json:"namespace"`
	Status    DocumentStatus `json:"status"`
	Vector    []float32      `json:"vector,omitempty"`
	Timestamp int64          `json:"timestamp"`
}

// DocumentRef identifies a document created by ingestion.
type DocumentRef struct {
	ID        string `json:"id"`
	Namespace string `json:"namespace"`
}

// NewTriplet builds a raw triplet document. When content is empty the
// display text is synthesized from the triplet itself so the lexical and
// embedded representations stay aligned.
func NewTriplet(head, relation, tail, namespace, content string) *KnowledgeDocument {
	text := content
	if text == "" {
		text = TripletPhrase(head, relation, tail)
	}
	return &KnowledgeDocument{
		Content:   text,
		Head:      head,
		Relation:  relation,
		Tail:      tail,
		DocType:   DocTypeTriplet,
		Namespace: namespace,
		Status:    StatusRaw,
		Timestamp: time.Now().UnixMilli(),
	}
}

// NewNote builds a raw note document linked to a topic entity.
func NewNote(topic, text, namespace string) *KnowledgeDocument {
	return &KnowledgeDocument{
		Content:   text,
		Head:      topic,
		Relation:  NoteRelation,
		Tail:      Truncate(text, NoteTailLength),
		DocType:   DocTypeNote,
		Namespace: namespace,
		Status:    StatusRaw,
		Timestamp: time.Now().UnixMilli(),
	}
}

// TripletPhrase renders a triplet as a natural-language phrase:
// ("Alice Chen", "LEADS", "Project_Alpha") becomes
// "Alice Chen leads Project_Alpha".
func TripletPhrase(head, relation, tail string) string {
	rel := strings.ToLower(strings.ReplaceAll(relation, "_", " "))
	return fmt.Sprintf("%s %s %s", head, rel, tail)
}

// EmbeddingText returns the canonical text sent to the embedding provider.
// For triplets this must match the synthesized display phrase exactly.
func (d *KnowledgeDocument) EmbeddingText() string {
	if d.DocType == DocTypeTriplet {
		return TripletPhrase(d.Head, d.Relation, d.Tail)
	}
	return Truncate(d.Content, NoteEmbedLength)
}

// Validate checks the creation invariants. Ingestion calls this before any
// store write.
func (d *KnowledgeDocument) Validate() error {
	if d.Namespace == "" {
		return fmt.Errorf("%w: namespace is required", ErrInvalidInput)
	}
	switch d.DocType {
	case DocTypeTriplet:
		if d.Head == "" || d.Relation == "" || d.Tail == "" {
			return fmt.Errorf("%w: triplet requires head, relation and tail", ErrInvalidInput)
		}
	case DocTypeNote:
		if d.Head == "" {
			return fmt.Errorf("%w: note requires a topic", ErrInvalidInput)
		}
		if d.Content == "" {
			return fmt.Errorf("%w: note requires text", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown doc_type %q", ErrInvalidInput, d.DocType)
	}
	return nil
}

// Truncate returns at most max characters of s, never splitting a rune.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for i := range s {
		if max == 0 {
			return s[:i]
		}
		max--
	}
	return s
}
