package handler

import (
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer wires the tool handlers into an MCP server. Composition only —
// the services arrive fully constructed.
func NewServer(query QueryEngine, workflow WorkflowEngine) *server.MCPServer {
	s := server.NewMCPServer(
		"dreamer",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	qh := NewQueryHandler(query)
	s.AddTool(qh.SearchByNamespaceTool(), qh.HandleSearchByNamespace)
	s.AddTool(qh.FindEntityRelationsTool(), qh.HandleFindEntityRelations)
	s.AddTool(qh.ListNamespacesTool(), qh.HandleListNamespaces)
	s.AddTool(qh.CrossReferenceTool(), qh.HandleCrossReference)
	s.AddTool(qh.SearchSemanticTool(), qh.HandleSearchSemantic)

	wh := NewWorkflowHandler(workflow)
	s.AddTool(wh.IngestMemoryTool(), wh.HandleIngestMemory)
	s.AddTool(wh.LogIncidentTool(), wh.HandleLogIncident)

	return s
}

func serverInstructions() string {
	return `You are a secure, multi-step reasoning agent for enterprise knowledge retrieval and incident management.

The knowledge graph is partitioned into namespaces (project contexts). Namespace isolation is critical:
- NEVER return data from a namespace the user has not requested.
- The ONLY exception is cross_reference, and only when the user explicitly asks to compare projects.
- find_entity_relations spans namespaces by design; always cite the namespace of every result.

For complex queries chain tools: list_namespaces to discover contexts, find_entity_relations to traverse,
search_by_namespace for details, search_semantic for conceptual queries. For incident response chain
find_entity_relations, search_by_namespace and log_incident.

Present graph data as "[namespace] head relation tail" and confirm every write.`
}
