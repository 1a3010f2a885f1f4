package types

// IngestMemoryRequest carries the parameters of the ingest_memory workflow.
// DocType defaults to triplet; "note" stores Tail as the note text under the
// Head topic.
type IngestMemoryRequest struct {
	Head      string `json:"head"`
	Relation  string `json:"relation"`
	Tail      string `json:"tail"`
	Namespace string `json:"namespace"`
	DocType   string `json:"doc_type,omitempty"`
}

// LogIncidentRequest carries the parameters of the log_incident workflow.
type LogIncidentRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Severity        string `json:"severity"`
	AffectedProject string `json:"affected_project"`
}
