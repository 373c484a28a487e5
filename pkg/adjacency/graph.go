package adjacency

import (
	"github.com/matzehuels/floorstack/pkg/resolve"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// ExteriorKey is the key of the node shared by all doors leading outside.
const ExteriorKey = resolve.Exterior

// Node kinds.
const (
	KindRoom     = "room"
	KindArea     = "area"
	KindExterior = "exterior"
)

// Node is a room, a non-room destination area, or the exterior.
type Node struct {
	Key   string     `json:"key"`
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Floor string     `json:"floor,omitempty"`
	Kind  string     `json:"kind"`
	Color survey.RGB `json:"color"`
	Area  float64    `json:"area,omitempty"`
}

// Edge is one door between two nodes.
type Edge struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Door  string  `json:"door,omitempty"`
	Type  string  `json:"type"`
	Width float64 `json:"width"`
}

// Graph is the connectivity graph of a building. Nodes and edges are in
// input order.
type Graph struct {
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`

	index map[string]int
}

// Key returns the node key of an area on a floor.
func Key(floor, id string) string {
	return floor + "/" + id
}

// Build derives the connectivity graph from a resolved building.
func Build(b *resolve.Building) *Graph {
	g := &Graph{
		Name:  b.Name,
		Nodes: []Node{},
		Edges: []Edge{},
		index: make(map[string]int),
	}

	for _, f := range b.Floors {
		for _, r := range f.Rooms {
			g.add(Node{
				Key:   Key(f.Name, r.ID),
				ID:    r.ID,
				Name:  r.Name,
				Floor: f.Name,
				Kind:  KindRoom,
				Color: r.Color,
				Area:  r.Area,
			})
		}
	}

	for _, f := range b.Floors {
		for _, r := range f.Rooms {
			from := Key(f.Name, r.ID)
			for _, w := range r.Walls {
				for _, d := range w.Doors {
					g.Edges = append(g.Edges, Edge{
						From:  from,
						To:    g.destination(f.Name, d),
						Door:  d.ID,
						Type:  d.Type,
						Width: d.Width,
					})
				}
			}
		}
	}

	return g
}

// destination returns the node a door leads to, adding it if needed.
func (g *Graph) destination(floor string, d resolve.Door) string {
	if d.DestinationID == "" {
		return g.add(Node{Key: ExteriorKey, ID: ExteriorKey, Name: resolve.Exterior, Kind: KindExterior})
	}
	return g.add(Node{
		Key:   Key(floor, d.DestinationID),
		ID:    d.DestinationID,
		Name:  d.Destination,
		Floor: floor,
		Kind:  KindArea,
	})
}

// add inserts n unless a node with the same key exists and returns the key.
func (g *Graph) add(n Node) string {
	if _, ok := g.index[n.Key]; !ok {
		g.index[n.Key] = len(g.Nodes)
		g.Nodes = append(g.Nodes, n)
	}
	return n.Key
}

// Node looks up a node by key.
func (g *Graph) Node(key string) (Node, bool) {
	i, ok := g.index[key]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Neighbors returns the keys reachable through one door from key, in edge
// order and without repeats.
func (g *Graph) Neighbors(key string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, e := range g.Edges {
		var other string
		switch key {
		case e.From:
			other = e.To
		case e.To:
			other = e.From
		default:
			continue
		}
		if !seen[other] {
			seen[other] = true
			out = append(out, other)
		}
	}
	return out
}

// Degree is the number of doors touching key.
func (g *Graph) Degree(key string) int {
	n := 0
	for _, e := range g.Edges {
		if e.From == key || e.To == key {
			n++
		}
	}
	return n
}

// Isolated returns the rooms without any door, in node order.
func (g *Graph) Isolated() []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == KindRoom && g.Degree(n.Key) == 0 {
			out = append(out, n)
		}
	}
	return out
}
