// Package resolve turns a survey into a room-relative geometric model.
//
// Resolution runs per design, per room, per wall:
//
//  1. Rooms: every area of kind "room" is paired with the simple walls it
//     owns and the fixtures whose first room id names it.
//  2. Openings: each fixture on a wall is placed at its fractional position
//     along the wall, given a centerline from its width and rotation, and
//     classified as an opening, a door or a window. Doors also get the name
//     of the room on their far side, or "exterior".
//  3. Stacking: floors are stacked downwards in input order, each floor
//     dropping the level by the tallest room on the floor before it.
//
// Broken cross-references and unparseable numbers do not abort the whole
// building. They are collected as [Diagnostic]s next to the partial result,
// unless [Options.Strict] is set.
//
// # Usage
//
//	out, err := resolve.Resolve(building, resolve.Options{})
//	if err != nil {
//	    return err
//	}
//	for _, f := range out.Floors {
//	    fmt.Println(f.Name, f.Level, len(f.Rooms))
//	}
//
// Resolve never mutates its input and keeps no state between calls, so the
// same survey always resolves to the same output.
package resolve
