package models

// Notebook represents a notebook entry in the meta database. Each notebook
// owns an isolated directory of entity markdown documents.
type Notebook struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DirPath     string `json:"dir_path"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Relationship is a directed, verb-labeled edge between two entities.
// Context is free text and is always the empty string when absent.
type Relationship struct {
	Source  string `json:"source"`
	Verb    string `json:"verb"`
	Target  string `json:"target"`
	Context string `json:"context"`
}

// Entity is a node in the knowledge graph, decoded from its markdown document.
// Observations keep insertion order; duplicates are permitted.
type Entity struct {
	Name          string         `json:"name"`
	Observations  []string       `json:"observations"`
	Relationships []Relationship `json:"relationships"`
}

// KnowledgeGraph is the full decoded graph of one notebook: every entity
// keyed by name plus a flattened list of every relationship across all
// entities.
type KnowledgeGraph struct {
	Entities      map[string]Entity `json:"entities"`
	Relationships []Relationship    `json:"relationships"`
}
