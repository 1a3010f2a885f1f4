package service

import (
	"context"
	"fmt"

	"github.com/tieubaoca/dreamer-be/types"
)

// WorkflowService composes ingestion and the query engine into the two write
// workflows the agent exposes.
type WorkflowService struct {
	ingest *IngestService
	query  *QueryService
}

func NewWorkflowService(ingest *IngestService, query *QueryService) *WorkflowService {
	return &WorkflowService{ingest: ingest, query: query}
}

// IngestMemory writes a new knowledge triplet (or note) to the graph.
func (s *WorkflowService) IngestMemory(ctx context.Context, req types.IngestMemoryRequest) (*types.DocumentRef, error) {
	if req.DocType == string(types.DocTypeNote) {
		// For notes the head is the topic and the tail carries the text.
		return s.ingest.IngestNote(ctx, req.Head, req.Tail, req.Namespace)
	}
	return s.ingest.IngestTriplet(ctx, req.Head, req.Relation, req.Tail, req.Namespace, "")
}

// LogIncident records an incident as a structured note in the affected
// project's namespace, then traverses the graph around the project to report
// shared infrastructure that may also be impacted. The traversal reads the
// already-consolidated graph; the fresh note itself becomes searchable only
// after the next dream cycle.
func (s *WorkflowService) LogIncident(ctx context.Context, req types.LogIncidentRequest) (*types.IncidentReport, error) {
	if req.Title == "" || req.AffectedProject == "" {
		return nil, fmt.Errorf("%w: incident requires title and affected_project", types.ErrInvalidInput)
	}
	severity := req.Severity
	if severity == "" {
		severity = "unknown"
	}

	text := fmt.Sprintf("[%s] %s — %s (affected project: %s)",
		severity, req.Title, req.Description, req.AffectedProject)
	ref, err := s.ingest.IngestNote(ctx, "Incident: "+req.Title, text, req.AffectedProject)
	if err != nil {
		return nil, err
	}

	report := &types.IncidentReport{Ref: ref}

	relations, err := s.query.FindEntityRelations(ctx, req.AffectedProject)
	if err != nil {
		return nil, fmt.Errorf("incident logged but impact check failed: %w", err)
	}
	for _, rel := range relations {
		// Relations recorded outside the project's own namespace point at
		// shared infrastructure (CI, monitoring, secrets) serving it.
		if rel.Namespace != req.AffectedProject {
			report.SharedImpact = append(report.SharedImpact, rel)
		}
	}
	return report, nil
}
