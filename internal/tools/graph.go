package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/wagnerlima/kg-notebook/internal/graph"
	"github.com/wagnerlima/kg-notebook/internal/session"
)

// GraphTools holds references needed by knowledge graph tool handlers.
// Every handler operates on the session's active notebook.
type GraphTools struct {
	Session *session.Session
}

// Response is the envelope graph tools return: a success flag, a
// human-readable message, and data echoing the request fields. Logical
// rejections (already exists, not found, no match) come back as
// success=false; only storage failures surface as MCP tool errors.
type Response struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// --- Input types ---

type CreateEntityInput struct {
	EntityName string `json:"entity_name" jsonschema:"Name of the entity to create"`
}

type CreateEntitiesBatchInput struct {
	EntityNames []string `json:"entity_names" jsonschema:"Entity names to create"`
}

type AddObservationInput struct {
	EntityName      string `json:"entity_name" jsonschema:"Name of the entity to add an observation to"`
	ObservationText string `json:"observation_text" jsonschema:"Free-text fact to record"`
}

type AddObservationsBatchInput struct {
	Observations []ObservationItem `json:"observations" jsonschema:"Observations to add"`
}

type ObservationItem struct {
	EntityName      string `json:"entity_name" jsonschema:"Name of the entity"`
	ObservationText string `json:"observation_text" jsonschema:"Free-text fact to record"`
}

type AddRelationshipInput struct {
	FromEntity       string `json:"from_entity" jsonschema:"Source entity name"`
	RelationshipType string `json:"relationship_type" jsonschema:"Relationship verb or preposition (e.g. works at)"`
	ToEntity         string `json:"to_entity" jsonschema:"Target entity name"`
	Details          string `json:"details,omitempty" jsonschema:"Optional free-text context for the relationship"`
}

type AddRelationshipsBatchInput struct {
	Relationships []RelationshipItem `json:"relationships" jsonschema:"Relationships to add"`
}

type RelationshipItem struct {
	FromEntity       string `json:"from_entity" jsonschema:"Source entity name"`
	RelationshipType string `json:"relationship_type" jsonschema:"Relationship verb or preposition"`
	ToEntity         string `json:"to_entity" jsonschema:"Target entity name"`
	Details          string `json:"details,omitempty" jsonschema:"Optional free-text context"`
}

type DeleteEntityInput struct {
	EntityName string `json:"entity_name" jsonschema:"Name of the entity to delete"`
}

type DeleteObservationInput struct {
	EntityName      string `json:"entity_name" jsonschema:"Name of the entity containing the observation"`
	ObservationText string `json:"observation_text" jsonschema:"Exact text of the observation to delete"`
}

type DeleteRelationshipInput struct {
	FromEntity       string `json:"from_entity" jsonschema:"Source entity name"`
	RelationshipType string `json:"relationship_type" jsonschema:"Relationship verb or preposition"`
	ToEntity         string `json:"to_entity" jsonschema:"Target entity name"`
	Details          string `json:"details,omitempty" jsonschema:"Context, must match exactly what was used when creating"`
}

// --- Handlers ---

func (t *GraphTools) requireNotebook() (*graph.Service, *mcp.CallToolResult) {
	svc := t.Session.Graph()
	if svc == nil {
		return nil, toolError("No active notebook. Use switch_notebook to select one.")
	}
	return svc, nil
}

func respond(success bool, message string, data map[string]any) (*mcp.CallToolResult, any, error) {
	return toolJSON(Response{Success: success, Message: message, Data: data})
}

func (t *GraphTools) CreateEntity(_ context.Context, _ *mcp.CallToolRequest, input CreateEntityInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	status, err := svc.CreateEntity(input.EntityName)
	if err != nil {
		return toolError("Failed to create entity %q: %v", input.EntityName, err), nil, nil
	}

	data := map[string]any{"entity_name": input.EntityName}
	switch status {
	case graph.StatusOK:
		return respond(true, fmt.Sprintf("Entity '%s' created successfully.", input.EntityName), data)
	case graph.StatusAlreadyExists:
		return respond(false, fmt.Sprintf("Entity '%s' already exists.", input.EntityName), data)
	default:
		return respond(false, fmt.Sprintf("Invalid entity name '%s'.", input.EntityName), data)
	}
}

func (t *GraphTools) CreateEntitiesBatch(_ context.Context, _ *mcp.CallToolRequest, input CreateEntitiesBatchInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	results := make([]map[string]any, 0, len(input.EntityNames))
	successCount := 0
	for _, name := range input.EntityNames {
		status, err := svc.CreateEntity(name)
		if err != nil {
			return toolError("Failed to create entity %q: %v", name, err), nil, nil
		}
		switch status {
		case graph.StatusOK:
			successCount++
			results = append(results, map[string]any{
				"entity_name": name,
				"success":     true,
				"message":     fmt.Sprintf("Entity '%s' created successfully.", name),
			})
		case graph.StatusAlreadyExists:
			results = append(results, map[string]any{
				"entity_name": name,
				"success":     false,
				"message":     fmt.Sprintf("Entity '%s' already exists.", name),
			})
		default:
			results = append(results, map[string]any{
				"entity_name": name,
				"success":     false,
				"message":     fmt.Sprintf("Invalid entity name '%s'.", name),
			})
		}
	}

	return respond(successCount > 0,
		fmt.Sprintf("Created %d out of %d entities.", successCount, len(input.EntityNames)),
		map[string]any{"results": results})
}

func (t *GraphTools) AddObservation(_ context.Context, _ *mcp.CallToolRequest, input AddObservationInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	status, err := svc.AddObservation(input.EntityName, input.ObservationText)
	if err != nil {
		return toolError("Failed to add observation to %q: %v", input.EntityName, err), nil, nil
	}

	switch status {
	case graph.StatusOK:
		return respond(true, fmt.Sprintf("Observation added to '%s'.", input.EntityName), map[string]any{
			"entity_name":      input.EntityName,
			"observation_text": input.ObservationText,
		})
	case graph.StatusNotFound:
		return respond(false, fmt.Sprintf("Entity '%s' not found. Please create it first using create_entity.", input.EntityName), map[string]any{
			"entity_name": input.EntityName,
			"error_type":  "entity_not_found",
		})
	default:
		return respond(false, fmt.Sprintf("Invalid entity name '%s'.", input.EntityName), map[string]any{
			"entity_name": input.EntityName,
		})
	}
}

func (t *GraphTools) AddObservationsBatch(_ context.Context, _ *mcp.CallToolRequest, input AddObservationsBatchInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	results := make([]map[string]any, 0, len(input.Observations))
	successCount := 0
	for _, item := range input.Observations {
		if item.EntityName == "" {
			results = append(results, map[string]any{
				"success": false,
				"message": "Missing entity_name in observation object.",
			})
			continue
		}
		if item.ObservationText == "" {
			results = append(results, map[string]any{
				"entity_name": item.EntityName,
				"success":     false,
				"message":     fmt.Sprintf("Missing observation_text for entity '%s'.", item.EntityName),
			})
			continue
		}

		status, err := svc.AddObservation(item.EntityName, item.ObservationText)
		if err != nil {
			return toolError("Failed to add observation to %q: %v", item.EntityName, err), nil, nil
		}
		switch status {
		case graph.StatusOK:
			successCount++
			results = append(results, map[string]any{
				"entity_name":      item.EntityName,
				"observation_text": item.ObservationText,
				"success":          true,
				"message":          fmt.Sprintf("Observation added to '%s'.", item.EntityName),
			})
		case graph.StatusNotFound:
			results = append(results, map[string]any{
				"entity_name": item.EntityName,
				"success":     false,
				"message":     fmt.Sprintf("Entity '%s' not found. Please create it first using create_entity.", item.EntityName),
			})
		default:
			results = append(results, map[string]any{
				"entity_name": item.EntityName,
				"success":     false,
				"message":     fmt.Sprintf("Invalid entity name '%s'.", item.EntityName),
			})
		}
	}

	return respond(successCount > 0,
		fmt.Sprintf("Added %d out of %d observations.", successCount, len(input.Observations)),
		map[string]any{"results": results})
}

func (t *GraphTools) AddRelationship(_ context.Context, _ *mcp.CallToolRequest, input AddRelationshipInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	status, err := svc.AddRelationship(input.FromEntity, input.RelationshipType, input.ToEntity, input.Details)
	if err != nil {
		return toolError("Failed to add relationship from %q: %v", input.FromEntity, err), nil, nil
	}

	success, message := relationshipAddMessage(status, input.FromEntity, input.RelationshipType, input.ToEntity)
	return respond(success, message, map[string]any{
		"from_entity":       input.FromEntity,
		"relationship_type": input.RelationshipType,
		"to_entity":         input.ToEntity,
		"details":           input.Details,
	})
}

func (t *GraphTools) AddRelationshipsBatch(_ context.Context, _ *mcp.CallToolRequest, input AddRelationshipsBatchInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	results := make([]map[string]any, 0, len(input.Relationships))
	successCount := 0
	for _, item := range input.Relationships {
		if item.FromEntity == "" {
			results = append(results, map[string]any{
				"success": false,
				"message": "Missing source entity name in relationship object.",
			})
			continue
		}
		if item.RelationshipType == "" {
			results = append(results, map[string]any{
				"from_entity": item.FromEntity,
				"success":     false,
				"message":     fmt.Sprintf("Missing relationship type for source entity '%s'.", item.FromEntity),
			})
			continue
		}
		if item.ToEntity == "" {
			results = append(results, map[string]any{
				"from_entity": item.FromEntity,
				"success":     false,
				"message":     fmt.Sprintf("Missing target entity for relationship from '%s'.", item.FromEntity),
			})
			continue
		}

		status, err := svc.AddRelationship(item.FromEntity, item.RelationshipType, item.ToEntity, item.Details)
		if err != nil {
			return toolError("Failed to add relationship from %q: %v", item.FromEntity, err), nil, nil
		}
		success, message := relationshipAddMessage(status, item.FromEntity, item.RelationshipType, item.ToEntity)
		if success {
			successCount++
		}
		results = append(results, map[string]any{
			"from_entity":       item.FromEntity,
			"relationship_type": item.RelationshipType,
			"to_entity":         item.ToEntity,
			"details":           item.Details,
			"success":           success,
			"message":           message,
		})
	}

	return respond(successCount > 0,
		fmt.Sprintf("Added %d out of %d relationships.", successCount, len(input.Relationships)),
		map[string]any{"results": results})
}

func relationshipAddMessage(status graph.Status, from, verb, to string) (bool, string) {
	switch status {
	case graph.StatusOK:
		return true, fmt.Sprintf("Relationship added: '%s' %s '%s'", from, verb, to)
	case graph.StatusSelfReference:
		return false, fmt.Sprintf("Cannot add a relationship from '%s' to itself.", from)
	case graph.StatusNotFound:
		return false, fmt.Sprintf("Entity '%s' or '%s' not found. Please create both first using create_entity.", from, to)
	default:
		return false, "Invalid entity name in relationship."
	}
}

func (t *GraphTools) DeleteEntity(_ context.Context, _ *mcp.CallToolRequest, input DeleteEntityInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	status, err := svc.DeleteEntity(input.EntityName)
	if err != nil {
		return toolError("Failed to delete entity %q: %v", input.EntityName, err), nil, nil
	}

	data := map[string]any{"entity_name": input.EntityName}
	switch status {
	case graph.StatusOK:
		return respond(true, fmt.Sprintf("Entity '%s' and its relationships deleted successfully.", input.EntityName), data)
	case graph.StatusNotFound:
		data["error_type"] = "entity_not_found"
		return respond(false, fmt.Sprintf("Entity '%s' not found for deletion.", input.EntityName), data)
	default:
		return respond(false, fmt.Sprintf("Invalid entity name '%s'.", input.EntityName), data)
	}
}

func (t *GraphTools) DeleteObservation(_ context.Context, _ *mcp.CallToolRequest, input DeleteObservationInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	status, err := svc.DeleteObservation(input.EntityName, input.ObservationText)
	if err != nil {
		return toolError("Failed to delete observation from %q: %v", input.EntityName, err), nil, nil
	}

	switch status {
	case graph.StatusOK:
		return respond(true, fmt.Sprintf("Observation deleted successfully from '%s'.", input.EntityName), map[string]any{
			"entity_name":      input.EntityName,
			"observation_text": input.ObservationText,
		})
	case graph.StatusNotFound:
		return respond(false, fmt.Sprintf("Entity '%s' not found.", input.EntityName), map[string]any{
			"entity_name": input.EntityName,
			"error_type":  "entity_not_found",
		})
	case graph.StatusNoMatch:
		return respond(false, fmt.Sprintf("Failed to delete observation from '%s'. Make sure the text matches exactly what was added.", input.EntityName), map[string]any{
			"entity_name": input.EntityName,
			"error_type":  "observation_not_found",
		})
	default:
		return respond(false, fmt.Sprintf("Invalid entity name '%s'.", input.EntityName), map[string]any{
			"entity_name": input.EntityName,
		})
	}
}

func (t *GraphTools) DeleteRelationship(_ context.Context, _ *mcp.CallToolRequest, input DeleteRelationshipInput) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	status, err := svc.DeleteRelationship(input.FromEntity, input.RelationshipType, input.ToEntity, input.Details)
	if err != nil {
		return toolError("Failed to delete relationship from %q: %v", input.FromEntity, err), nil, nil
	}

	switch status {
	case graph.StatusOK:
		return respond(true, fmt.Sprintf("Relationship deleted successfully: '%s' %s '%s'", input.FromEntity, input.RelationshipType, input.ToEntity), map[string]any{
			"from_entity":       input.FromEntity,
			"relationship_type": input.RelationshipType,
			"to_entity":         input.ToEntity,
		})
	case graph.StatusNotFound:
		return respond(false, fmt.Sprintf("Source entity '%s' not found.", input.FromEntity), map[string]any{
			"from_entity": input.FromEntity,
			"error_type":  "entity_not_found",
		})
	case graph.StatusNoMatch:
		return respond(false, fmt.Sprintf("Failed to delete relationship from '%s'. Make sure all fields match exactly what was used when creating the relationship.", input.FromEntity), map[string]any{
			"from_entity": input.FromEntity,
			"to_entity":   input.ToEntity,
			"error_type":  "relationship_not_found",
		})
	default:
		return respond(false, "Invalid entity name in relationship.", map[string]any{
			"from_entity": input.FromEntity,
			"to_entity":   input.ToEntity,
		})
	}
}

func (t *GraphTools) GetGraph(_ context.Context, _ *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
	svc, errResult := t.requireNotebook()
	if errResult != nil {
		return errResult, nil, nil
	}

	kg, err := svc.Graph()
	if err != nil {
		return toolError("Failed to read graph: %v", err), nil, nil
	}

	return toolJSON(kg)
}
