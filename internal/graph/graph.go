package graph

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pushp314/prompttutor-backend/internal/models"
)

// Graph is the accumulated topic/entity/style/prompt graph. Node and
// edge ids are monotonically assigned with numeric suffixes; weights
// only ever increase. Repeated topic/entity/style labels are NOT
// merged across submissions; each ingest creates fresh nodes, which
// keeps exported snapshots byte-compatible with previously saved data
// (see DESIGN.md for the trade-off).
type Graph struct {
	nodes      map[string]*models.Node
	nodeOrder  []string
	edges      map[string]*models.Edge
	edgeOrder  []string
	nextNodeID int
	nextEdgeID int
	now        func() time.Time
}

func New() *Graph {
	return &Graph{
		nodes:      map[string]*models.Node{},
		edges:      map[string]*models.Edge{},
		nextNodeID: 1,
		nextEdgeID: 1,
		now:        time.Now,
	}
}

// AddNode inserts a node with weight 1 and returns its id.
func (g *Graph) AddNode(nodeType models.NodeType, label string, meta models.NodeMetadata) string {
	id := fmt.Sprintf("node_%d", g.nextNodeID)
	g.nextNodeID++

	seen := g.now().UTC().Format(time.RFC3339)
	meta.FirstSeen = seen
	meta.LastSeen = seen

	g.nodes[id] = &models.Node{
		Type:     nodeType,
		Label:    label,
		Weight:   1,
		Metadata: meta,
	}
	g.nodeOrder = append(g.nodeOrder, id)
	return id
}

// AddEdge inserts a directed edge with weight 1 and returns its id.
// Both endpoints must already exist.
func (g *Graph) AddEdge(source, target string, edgeType models.EdgeType) (string, error) {
	if _, ok := g.nodes[source]; !ok {
		return "", fmt.Errorf("edge source %s does not exist", source)
	}
	if _, ok := g.nodes[target]; !ok {
		return "", fmt.Errorf("edge target %s does not exist", target)
	}

	id := fmt.Sprintf("edge_%d", g.nextEdgeID)
	g.nextEdgeID++

	seen := g.now().UTC().Format(time.RFC3339)
	g.edges[id] = &models.Edge{
		Source: source,
		Target: target,
		Type:   edgeType,
		Weight: 1,
		Metadata: models.EdgeMetadata{
			FirstSeen: seen,
			LastSeen:  seen,
		},
	}
	g.edgeOrder = append(g.edgeOrder, id)
	return id, nil
}

// TouchNode bumps a node's weight and refreshes its last-seen instant.
func (g *Graph) TouchNode(id string, weight int) {
	if n, ok := g.nodes[id]; ok {
		n.Weight += weight
		n.Metadata.LastSeen = g.now().UTC().Format(time.RFC3339)
	}
}

// Node returns a copy of the node, if present.
func (g *Graph) Node(id string) (models.Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return models.Node{}, false
	}
	return *n, true
}

// Ingest incorporates one review result: a prompt node, one node per
// supplied topic/entity/style, "uses" edges from the prompt node to
// each, and "related_to" links between topic pairs, entity-topic pairs
// and style-topic pairs. Per-submission feature counts are single
// digits, so the quadratic edge fan-out stays small.
func (g *Graph) Ingest(result models.ReviewResult) models.GraphDelta {
	delta := models.GraphDelta{
		TopicNodes:  map[string]string{},
		EntityNodes: map[string]string{},
		StyleNodes:  map[string]string{},
	}

	delta.PromptNodeID = g.AddNode(models.NodeTypePrompt, result.Prompt, models.NodeMetadata{
		Type:     result.Type,
		Score:    result.Score,
		Criteria: result.Criteria,
	})

	addEdge := func(source, target string, t models.EdgeType) {
		if id, err := g.AddEdge(source, target, t); err == nil {
			delta.EdgeIDs = append(delta.EdgeIDs, id)
		}
	}

	for _, topic := range result.Topics {
		id := g.AddNode(models.NodeTypeTopic, topic, models.NodeMetadata{})
		delta.TopicNodes[topic] = id
		addEdge(delta.PromptNodeID, id, models.EdgeTypeUses)
	}
	for _, entity := range result.Entities {
		id := g.AddNode(models.NodeTypeEntity, entity, models.NodeMetadata{})
		delta.EntityNodes[entity] = id
		addEdge(delta.PromptNodeID, id, models.EdgeTypeUses)
	}
	for _, style := range result.Styles {
		id := g.AddNode(models.NodeTypeStyle, style, models.NodeMetadata{})
		delta.StyleNodes[style] = id
		addEdge(delta.PromptNodeID, id, models.EdgeTypeUses)
	}

	for i := 0; i < len(result.Topics); i++ {
		for j := i + 1; j < len(result.Topics); j++ {
			addEdge(delta.TopicNodes[result.Topics[i]], delta.TopicNodes[result.Topics[j]], models.EdgeTypeRelatedTo)
		}
	}
	for _, entity := range result.Entities {
		for _, topic := range result.Topics {
			addEdge(delta.EntityNodes[entity], delta.TopicNodes[topic], models.EdgeTypeRelatedTo)
		}
	}
	for _, style := range result.Styles {
		for _, topic := range result.Topics {
			addEdge(delta.StyleNodes[style], delta.TopicNodes[topic], models.EdgeTypeRelatedTo)
		}
	}

	return delta
}

// NodesByType lists nodes of one type in insertion order.
func (g *Graph) NodesByType(t models.NodeType) []models.NodeRecord {
	var out []models.NodeRecord
	for _, id := range g.nodeOrder {
		if n := g.nodes[id]; n.Type == t {
			out = append(out, models.NodeRecord{ID: id, Node: *n})
		}
	}
	return out
}

// ConnectedNodes returns the distinct neighbors of a node across both
// edge directions, in first-connection order.
func (g *Graph) ConnectedNodes(nodeID string) []models.NodeRecord {
	seen := map[string]struct{}{}
	var out []models.NodeRecord

	add := func(id string) {
		if _, dup := seen[id]; dup {
			return
		}
		if n, ok := g.nodes[id]; ok {
			seen[id] = struct{}{}
			out = append(out, models.NodeRecord{ID: id, Node: *n})
		}
	}

	for _, eid := range g.edgeOrder {
		e := g.edges[eid]
		if e.Source == nodeID {
			add(e.Target)
		}
		if e.Target == nodeID {
			add(e.Source)
		}
	}
	return out
}

// Recommendation is a second-degree neighbor with its derived score.
type Recommendation struct {
	models.NodeRecord
	Score float64 `json:"score"`
}

// Recommend ranks second-degree neighbors of a node: first-degree
// neighbors and the origin itself are excluded, each candidate scores
// its own weight boosted x1.5 for matching node type and x1.2 for
// matching metadata type, sorted descending. Ties keep the order the
// candidates were first discovered in.
func (g *Graph) Recommend(nodeID string, limit int) []Recommendation {
	origin, ok := g.nodes[nodeID]
	if !ok {
		return nil
	}

	firstDegree := g.ConnectedNodes(nodeID)
	inFirst := make(map[string]struct{}, len(firstDegree))
	for _, n := range firstDegree {
		inFirst[n.ID] = struct{}{}
	}

	seen := map[string]struct{}{}
	var candidates []models.NodeRecord
	for _, n := range firstDegree {
		for _, second := range g.ConnectedNodes(n.ID) {
			if second.ID == nodeID {
				continue
			}
			if _, skip := inFirst[second.ID]; skip {
				continue
			}
			if _, dup := seen[second.ID]; dup {
				continue
			}
			seen[second.ID] = struct{}{}
			candidates = append(candidates, second)
		}
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		score := float64(c.Weight)
		if c.Node.Type == origin.Type {
			score *= 1.5
		}
		if c.Node.Metadata.Type == origin.Metadata.Type {
			score *= 1.2
		}
		recs = append(recs, Recommendation{NodeRecord: c, Score: score})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// Export snapshots the graph as flat node and edge lists, insertion
// order preserved.
func (g *Graph) Export() models.GraphSnapshot {
	snap := models.GraphSnapshot{
		Nodes: make([]models.NodeRecord, 0, len(g.nodeOrder)),
		Edges: make([]models.EdgeRecord, 0, len(g.edgeOrder)),
	}
	for _, id := range g.nodeOrder {
		snap.Nodes = append(snap.Nodes, models.NodeRecord{ID: id, Node: *g.nodes[id]})
	}
	for _, id := range g.edgeOrder {
		snap.Edges = append(snap.Edges, models.EdgeRecord{ID: id, Edge: *g.edges[id]})
	}
	return snap
}

// Import replaces the graph with a snapshot. The next-id counters are
// recomputed as one past the highest numeric suffix seen, for nodes
// and edges independently.
func (g *Graph) Import(snap models.GraphSnapshot) {
	g.nodes = map[string]*models.Node{}
	g.nodeOrder = nil
	g.edges = map[string]*models.Edge{}
	g.edgeOrder = nil
	g.nextNodeID = 1
	g.nextEdgeID = 1

	for _, rec := range snap.Nodes {
		node := rec.Node
		g.nodes[rec.ID] = &node
		g.nodeOrder = append(g.nodeOrder, rec.ID)
		if n := numericSuffix(rec.ID); n >= g.nextNodeID {
			g.nextNodeID = n + 1
		}
	}
	for _, rec := range snap.Edges {
		edge := rec.Edge
		g.edges[rec.ID] = &edge
		g.edgeOrder = append(g.edgeOrder, rec.ID)
		if n := numericSuffix(rec.ID); n >= g.nextEdgeID {
			g.nextEdgeID = n + 1
		}
	}
}

// Reset drops everything and restarts the counters.
func (g *Graph) Reset() {
	g.Import(models.GraphSnapshot{})
}

// NodeCount and EdgeCount report graph size.
func (g *Graph) NodeCount() int { return len(g.nodes) }
func (g *Graph) EdgeCount() int { return len(g.edges) }

func numericSuffix(id string) int {
	idx := strings.LastIndex(id, "_")
	if idx < 0 {
		return 0
	}
	n, err := strconv.Atoi(id[idx+1:])
	if err != nil {
		return 0
	}
	return n
}
