package models

type NodeType string

const (
	NodeTypeTopic  NodeType = "topic"
	NodeTypeEntity NodeType = "entity"
	NodeTypeStyle  NodeType = "style"
	NodeTypePrompt NodeType = "prompt"
)

type EdgeType string

const (
	EdgeTypeRelatedTo EdgeType = "related_to"
	EdgeTypeUses      EdgeType = "uses"
	EdgeTypeSimilarTo EdgeType = "similar_to"
	EdgeTypeLeadsTo   EdgeType = "leads_to"
)

// NodeMetadata carries observation instants plus the prompt-specific
// extras. Type/Score/Criteria are only set on prompt nodes; an empty
// Type on both ends of a comparison still counts as a match, matching
// the recommendation scoring the exported data was built with.
type NodeMetadata struct {
	FirstSeen string         `json:"firstSeen"`
	LastSeen  string         `json:"lastSeen"`
	Type      PromptType     `json:"type,omitempty"`
	Score     int            `json:"score,omitempty"`
	Criteria  map[string]int `json:"criteria,omitempty"`
}

type EdgeMetadata struct {
	FirstSeen string `json:"firstSeen"`
	LastSeen  string `json:"lastSeen"`
}

type Node struct {
	Type     NodeType     `json:"type"`
	Label    string       `json:"label"`
	Weight   int          `json:"weight"`
	Metadata NodeMetadata `json:"metadata"`
}

type Edge struct {
	Source   string       `json:"source"`
	Target   string       `json:"target"`
	Type     EdgeType     `json:"type"`
	Weight   int          `json:"weight"`
	Metadata EdgeMetadata `json:"metadata"`
}

// NodeRecord / EdgeRecord are the flat export shapes: the element plus
// its assigned identifier ("node_N" / "edge_N").
type NodeRecord struct {
	ID string `json:"id"`
	Node
}

type EdgeRecord struct {
	ID string `json:"id"`
	Edge
}

// GraphSnapshot round-trips the whole graph through the store.
type GraphSnapshot struct {
	Nodes []NodeRecord `json:"nodes"`
	Edges []EdgeRecord `json:"edges"`
}

// GraphDelta describes what one submission added to the graph.
type GraphDelta struct {
	PromptNodeID string            `json:"promptNodeId"`
	TopicNodes   map[string]string `json:"topicNodes"`
	EntityNodes  map[string]string `json:"entityNodes"`
	StyleNodes   map[string]string `json:"styleNodes"`
	EdgeIDs      []string          `json:"edgeIds"`
}
