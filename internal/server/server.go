package server

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagnerlima/kg-notebook/internal/graph"
	"github.com/wagnerlima/kg-notebook/internal/session"
	"github.com/wagnerlima/kg-notebook/internal/storage"
	"github.com/wagnerlima/kg-notebook/internal/tools"
)

// New creates a fully configured MCP server with all tools registered.
func New(meta *storage.MetaStore) *mcp.Server {
	mgr := graph.NewManager()
	sess := session.New(mgr)

	nt := &tools.NotebookTools{Meta: meta, Manager: mgr, Session: sess}
	gt := &tools.GraphTools{Session: sess}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    "kg-notebook",
		Version: "0.1.0",
	}, nil)

	// Notebook management tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "list_notebooks",
		Description: "List all notebooks with optional status filter (active, archived, all)",
	}, nt.ListNotebooks)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_notebook",
		Description: "Create a new notebook with its own isolated knowledge graph directory",
	}, nt.CreateNotebook)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "switch_notebook",
		Description: "Switch the active notebook for the current session",
	}, nt.SwitchNotebook)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_current_notebook",
		Description: "Get information about the currently active notebook",
	}, nt.GetCurrentNotebook)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "archive_notebook",
		Description: "Archive a notebook (preserves its documents, makes it inactive)",
	}, nt.ArchiveNotebook)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_notebook",
		Description: "Permanently delete a notebook and all its documents (irreversible)",
	}, nt.DeleteNotebook)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "restore_notebook",
		Description: "Restore an archived notebook back to active status",
	}, nt.RestoreNotebook)

	// Knowledge graph tools
	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_entity",
		Description: "Create a new entity in the knowledge graph (requires active notebook)",
	}, gt.CreateEntity)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "create_entities_batch",
		Description: "Create multiple entities in a single operation (requires active notebook)",
	}, gt.CreateEntitiesBatch)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_observation",
		Description: "Add a single fact or piece of information about an entity (requires active notebook)",
	}, gt.AddObservation)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_observations_batch",
		Description: "Add multiple observations to entities in a single operation (requires active notebook)",
	}, gt.AddObservationsBatch)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_relationship",
		Description: "Add a directed relationship between two existing entities (requires active notebook)",
	}, gt.AddRelationship)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "add_relationships_batch",
		Description: "Add multiple relationships between entities in a single operation (requires active notebook)",
	}, gt.AddRelationshipsBatch)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_entity",
		Description: "Delete an entity and every relationship referencing it (requires active notebook)",
	}, gt.DeleteEntity)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_observation",
		Description: "Delete a specific observation from an entity, matched by exact text (requires active notebook)",
	}, gt.DeleteObservation)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "delete_relationship",
		Description: "Delete a specific relationship, all fields matched exactly (requires active notebook)",
	}, gt.DeleteRelationship)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_graph",
		Description: "Retrieve the complete knowledge graph of the active notebook (requires active notebook)",
	}, gt.GetGraph)

	return srv
}
