package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagnerlima/kg-notebook/internal/graph"
	"github.com/wagnerlima/kg-notebook/internal/models"
	"github.com/wagnerlima/kg-notebook/internal/session"
	"github.com/wagnerlima/kg-notebook/internal/storage"
)

// NotebookTools holds references needed by notebook management tool handlers.
type NotebookTools struct {
	Meta    *storage.MetaStore
	Manager *graph.Manager
	Session *session.Session
}

// --- Input types ---

type ListNotebooksInput struct {
	Status string `json:"status" jsonschema:"Filter notebooks by status: active, archived, or all"`
}

type CreateNotebookInput struct {
	Name        string `json:"name" jsonschema:"Unique notebook name (slug-friendly)"`
	Description string `json:"description,omitempty" jsonschema:"Optional notebook description"`
}

type SwitchNotebookInput struct {
	Name string `json:"name" jsonschema:"Name of the notebook to switch to"`
}

type ArchiveNotebookInput struct {
	Name string `json:"name" jsonschema:"Name of the notebook to archive"`
}

type DeleteNotebookInput struct {
	Name string `json:"name" jsonschema:"Name of the notebook to permanently delete"`
}

type RestoreNotebookInput struct {
	Name string `json:"name" jsonschema:"Name of the archived notebook to restore"`
}

// --- Handlers ---

func (t *NotebookTools) ListNotebooks(_ context.Context, _ *mcp.CallToolRequest, input ListNotebooksInput) (*mcp.CallToolResult, any, error) {
	status := input.Status
	if status == "" {
		status = "active"
	}

	notebooks, err := t.Meta.ListNotebooks(status)
	if err != nil {
		return toolError("Failed to list notebooks: %v", err), nil, nil
	}
	if notebooks == nil {
		notebooks = []models.Notebook{}
	}

	return toolJSON(notebooks)
}

func (t *NotebookTools) CreateNotebook(_ context.Context, _ *mcp.CallToolRequest, input CreateNotebookInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("Notebook name is required"), nil, nil
	}

	nb, err := t.Meta.CreateNotebook(input.Name, input.Description)
	if err != nil {
		return toolError("Failed to create notebook: %v", err), nil, nil
	}

	// Auto-switch to the new notebook
	if _, err := t.Session.SwitchNotebook(t.Meta, nb.Name); err != nil {
		return toolError("Notebook created but failed to switch: %v", err), nil, nil
	}

	return toolJSON(nb)
}

func (t *NotebookTools) SwitchNotebook(_ context.Context, _ *mcp.CallToolRequest, input SwitchNotebookInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("Notebook name is required"), nil, nil
	}

	nb, err := t.Session.SwitchNotebook(t.Meta, input.Name)
	if err != nil {
		return toolError("Failed to switch notebook: %v", err), nil, nil
	}

	return toolJSON(nb)
}

func (t *NotebookTools) GetCurrentNotebook(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	id, name, ok := t.Session.GetCurrent()
	if !ok {
		return toolText("No notebook is currently active. Use switch_notebook to select one."), nil, nil
	}

	nb, err := t.Meta.GetNotebookByID(id)
	if err != nil {
		return toolText(fmt.Sprintf("Active notebook: %s (details unavailable)", name)), nil, nil
	}

	return toolJSON(nb)
}

func (t *NotebookTools) ArchiveNotebook(_ context.Context, _ *mcp.CallToolRequest, input ArchiveNotebookInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("Notebook name is required"), nil, nil
	}

	// If archiving the active notebook, clear the session
	if _, currentName, ok := t.Session.GetCurrent(); ok && currentName == input.Name {
		t.Session.Clear()
	}

	nb, err := t.Meta.ArchiveNotebook(input.Name)
	if err != nil {
		return toolError("Failed to archive notebook: %v", err), nil, nil
	}
	t.Manager.Evict(nb.ID)

	return toolJSON(nb)
}

func (t *NotebookTools) DeleteNotebook(_ context.Context, _ *mcp.CallToolRequest, input DeleteNotebookInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("Notebook name is required"), nil, nil
	}

	// If deleting the active notebook, clear the session
	if _, currentName, ok := t.Session.GetCurrent(); ok && currentName == input.Name {
		t.Session.Clear()
	}

	nb, err := t.Meta.GetNotebookByName(input.Name)
	if err != nil {
		return toolError("Failed to delete notebook: %v", err), nil, nil
	}
	if err := t.Meta.DeleteNotebook(input.Name); err != nil {
		return toolError("Failed to delete notebook: %v", err), nil, nil
	}
	t.Manager.Evict(nb.ID)

	return toolText(fmt.Sprintf("Notebook %q permanently deleted.", input.Name)), nil, nil
}

func (t *NotebookTools) RestoreNotebook(_ context.Context, _ *mcp.CallToolRequest, input RestoreNotebookInput) (*mcp.CallToolResult, any, error) {
	if input.Name == "" {
		return toolError("Notebook name is required"), nil, nil
	}

	nb, err := t.Meta.RestoreNotebook(input.Name)
	if err != nil {
		return toolError("Failed to restore notebook: %v", err), nil, nil
	}

	return toolJSON(nb)
}

// --- Helpers ---

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
