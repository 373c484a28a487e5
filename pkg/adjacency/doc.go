// Package adjacency builds the room connectivity graph of a resolved
// building and renders it as a node-link diagram.
//
// # Overview
//
// Every resolved room becomes a node. Every door becomes an undirected edge
// from the room that owns it to its destination: another room, a non-room
// area such as a garden, or the shared exterior node. Openings and windows
// are not connections and do not appear.
//
// Room ids are only unique within a floor, so nodes are keyed by floor and
// id ("Ground/A1").
//
// # Usage
//
//	g := adjacency.Build(resolved)
//	dot := adjacency.ToDOT(g, adjacency.Options{Detailed: true})
//	svg, err := adjacency.RenderSVG(ctx, dot)
//
// The diagram groups rooms by floor and fills each room node with its
// surveyed colour. It shows connectivity only; it is not a drawing of the
// plan.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering and [github.com/lucasb-eyer/go-colorful] for node colours.
package adjacency
