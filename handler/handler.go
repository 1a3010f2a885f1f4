// Package handler exposes the knowledge graph operations as MCP tools over
// stdio. It holds no business logic: argument binding, result formatting and
// the explicit empty-result messages live here, everything else in service.
package handler

import (
	"context"

	"github.com/tieubaoca/dreamer-be/types"
)

// QueryEngine is the read side consumed by the tool handlers.
type QueryEngine interface {
	SearchByNamespace(ctx context.Context, namespace string) ([]types.KnowledgeDocument, error)
	FindEntityRelations(ctx context.Context, entity string) ([]types.KnowledgeDocument, error)
	ListNamespaces(ctx context.Context) ([]types.NamespaceCount, error)
	CrossReference(ctx context.Context) ([]types.CrossReferenceEntry, error)
	SearchSemantic(ctx context.Context, query, namespace string) ([]types.KnowledgeDocument, error)
}

// WorkflowEngine is the write side consumed by the tool handlers.
type WorkflowEngine interface {
	IngestMemory(ctx context.Context, req types.IngestMemoryRequest) (*types.DocumentRef, error)
	LogIncident(ctx context.Context, req types.LogIncidentRequest) (*types.IncidentReport, error)
}
