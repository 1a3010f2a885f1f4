package types

// DreamReport summarizes one consolidation cycle.
type DreamReport struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// NamespaceCount pairs a namespace with its dreamed document count.
type NamespaceCount struct {
	Namespace string `json:"namespace"`
	Count     int    `json:"count"`
}

// CrossReferenceEntry describes an entity that appears as a triplet tail in
// more than one namespace.
type CrossReferenceEntry struct {
	Tail           string   `json:"tail"`
	NamespaceCount int      `json:"namespace_count"`
	Namespaces     []string `json:"namespaces"`
}

// IncidentReport is the result of the log_incident workflow: the created
// incident note plus any shared infrastructure the affected project depends
// on, attributed by namespace.
type IncidentReport struct {
	Ref          *DocumentRef        `json:"ref"`
	SharedImpact []KnowledgeDocument `json:"shared_impact,omitempty"`
}
