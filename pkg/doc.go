// Package pkg provides the core libraries for floorstack, which turns RoomScan
// LiDAR floor-plan surveys into a resolved geometric building model.
//
// # Overview
//
// A survey describes each room in its own local frame: walls are segments,
// doors and windows are objects that sit somewhere along a wall. floorstack
// resolves that into world space: every wall knows its endpoints, every door
// knows its centerline and which room it leads to, and every floor knows its
// elevation in the stack.
//
// # Architecture
//
// The typical data flow:
//
//	RoomScan XML / survey JSON
//	         ↓
//	    [survey/roomscan] package (decode the export)
//	         ↓
//	    [survey] package (areas, lines, fixture objects, lookup index)
//	         ↓
//	    [resolve] package (walls, fixtures, doors, floor stacking, diagnostics)
//	         ↓
//	    [adjacency] package (room connectivity graph, DOT/SVG)
//	         ↓
//	    JSON/DOT/SVG output
//
// # Quick Start
//
//	b, _ := roomscan.ParseFile("house.xml")
//	rb, _ := resolve.Resolve(b, resolve.Options{})
//	for _, f := range rb.Floors {
//	    fmt.Printf("%s at %.2f m\n", f.Name, f.Level)
//	}
//
// # Main Packages
//
// [geom] - Wall-local to world transforms and polygon measures.
//
// [survey] - The decoded survey model and the per-design lookup index.
//
// [resolve] - Resolution of a survey into rooms, walls, doors and windows,
// with per-entity diagnostics instead of whole-run failures.
//
// [adjacency] - Room connectivity graph built from resolved doors.
//
// [io] - JSON import and export of surveys and resolved buildings.
//
// [pipeline] - Complete parse → resolve → render pipeline used by the CLI
// and the HTTP service, with content-addressed caching.
//
// [cache] - Cache backends: filesystem for the CLI, Redis and MongoDB for
// shared deployments.
//
// [observability] - Hook registry for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by failures and diagnostics.
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/resolve/...    # Specific package
//	go test -run Example         # Examples only
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/geom
// [survey]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/survey
// [survey/roomscan]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/survey/roomscan
// [resolve]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/resolve
// [adjacency]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/adjacency
// [io]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/floorstack/pkg/errors
package pkg
