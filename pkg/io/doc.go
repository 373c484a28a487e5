// Package io provides JSON import and export for surveys and resolved
// buildings.
//
// # Survey Format
//
// A survey is the JSON form of [survey.Building]:
//
//	{
//	  "name": "Cottage",
//	  "floors": [{
//	    "name": "Ground",
//	    "designs": [{
//	      "areas":   [{"id": "A1", "kind": "room", "name": "Kitchen", "height": 2.5,
//	                   "boundary": [{"x": 0, "y": 0}, {"x": 4, "y": 0}, {"x": 4, "y": 3}]}],
//	      "lines":   [{"id": "W1", "area_id": "A1", "kind": "simple_wall",
//	                   "endpoints": {"x1": 0, "y1": 0, "x2": 4, "y2": 0}}],
//	      "objects": [{"type": "door", "room_ids": ["A1", "A2"], "wall_id": "W1",
//	                   "along": 0.5, "size": {"width": 0.9, "depth": 0.1, "height": 2}}]
//	    }]
//	  }]
//	}
//
// Coordinates are in the floor's local frame with the y axis inverted, as
// RoomScan exports them. An object without "wall_id" is free-standing.
//
// # Resolved Format
//
// [WriteBuilding] encodes a [resolve.Building] with world coordinates. Points
// are [x, y] arrays. [ReadBuilding] decodes the same format, so resolved
// output can be cached and re-read without resolving again.
//
// # Import and Export
//
// [ReadSurvey] and [ReadBuilding] read from any io.Reader; [ImportSurvey]
// and [ImportBuilding] read a file. [WriteSurvey], [WriteBuilding] and
// their Export counterparts write indented JSON.
//
// [survey.Building]: github.com/matzehuels/floorstack/pkg/survey.Building
// [resolve.Building]: github.com/matzehuels/floorstack/pkg/resolve.Building
package io
