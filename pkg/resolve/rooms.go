package resolve

import (
	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/geom"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// RoomGroup is a room area with the records it owns.
type RoomGroup struct {
	Area     *survey.Area
	Walls    []*survey.Line
	Fixtures []*survey.FixtureObject
}

// GroupRooms pairs every room in the index with its own simple walls and the
// fixtures whose first room id names it. Non-room areas are skipped. The
// result is in input order and empty when the design has no rooms.
func GroupRooms(ix *survey.Index) []RoomGroup {
	rooms := ix.Rooms()
	groups := make([]RoomGroup, 0, len(rooms))
	for _, a := range rooms {
		groups = append(groups, RoomGroup{
			Area:     a,
			Walls:    ix.Walls(a.ID),
			Fixtures: ix.Fixtures(a.ID),
		})
	}
	return groups
}

// resolveDesign resolves every room of one design.
func resolveDesign(d *survey.Design, opts *Options, diag *diagnostics) []Room {
	ix := survey.NewIndex(d)
	checkReferences(d, ix, diag)

	groups := GroupRooms(ix)
	rooms := make([]Room, 0, len(groups))
	for _, g := range groups {
		if r, ok := resolveRoom(g, ix, opts, diag); ok {
			rooms = append(rooms, r)
		}
	}
	return rooms
}

// resolveRoom builds one room. It fails only when the room's own geometry is
// malformed; broken walls and fixtures are skipped individually.
func resolveRoom(g RoomGroup, ix *survey.Index, opts *Options, diag *diagnostics) (Room, bool) {
	a := g.Area
	if survey.HasGeometryFault(a.Malformed) {
		diag.add(errors.ErrCodeMalformedNumeric, EntityArea, a.ID, "unparseable fields %v", a.Malformed)
		return Room{}, false
	}
	if len(a.Malformed) > 0 {
		diag.add(errors.ErrCodeMalformedNumeric, EntityArea, a.ID, "unparseable fields %v (room kept)", a.Malformed)
	}

	boundary := geom.Boundary(a.Boundary)
	room := Room{
		ID:       a.ID,
		Name:     a.Name,
		Color:    a.Color,
		Height:   a.Height,
		Area:     geom.RingArea(boundary),
		Boundary: boundary,
		Walls:    make([]Wall, 0, len(g.Walls)),
	}

	for _, line := range g.Walls {
		if survey.HasGeometryFault(line.Malformed) {
			diag.add(errors.ErrCodeMalformedNumeric, EntityLine, line.ID, "unparseable fields %v", line.Malformed)
			continue
		}
		room.Walls = append(room.Walls, resolveWall(line, fixturesOn(g.Fixtures, line.ID), ix, opts, diag))
	}

	opts.Logger.Debug("resolved room", "floor", diag.floor, "room", a.ID, "name", a.Name, "walls", len(room.Walls))
	return room, true
}

// fixturesOn filters a room's fixtures down to those mounted on wallID.
func fixturesOn(fixtures []*survey.FixtureObject, wallID string) []*survey.FixtureObject {
	var out []*survey.FixtureObject
	for _, o := range fixtures {
		if o.OnWall() && o.Wall() == wallID {
			out = append(out, o)
		}
	}
	return out
}

// checkReferences reports records whose identifiers do not resolve. Such
// records are never matched during resolution, so reporting is all that is
// needed to keep them from disappearing silently.
func checkReferences(d *survey.Design, ix *survey.Index, diag *diagnostics) {
	for _, dup := range ix.Duplicates() {
		diag.add(errors.ErrCodeDuplicateID, dup.Kind, dup.ID, "duplicate %s id, later record ignored", dup.Kind)
	}

	for _, l := range ix.OrphanWalls() {
		diag.add(errors.ErrCodeMalformedReference, EntityLine, l.ID, "wall references unknown area %q", l.AreaID)
	}

	for i := range d.Objects {
		o := &d.Objects[i]
		if !o.OnWall() {
			continue
		}
		id := ix.ObjectID(o)
		owner := o.Owner()
		if owner == "" {
			diag.add(errors.ErrCodeMalformedReference, EntityObject, id, "wall fixture has no owning room")
			continue
		}
		if _, ok := ix.Area(owner); !ok {
			diag.add(errors.ErrCodeMalformedReference, EntityObject, id, "owning room %q not found", owner)
			continue
		}
		line, ok := ix.Line(o.Wall())
		if !ok {
			diag.add(errors.ErrCodeMalformedReference, EntityObject, id, "wall %q not found", o.Wall())
			continue
		}
		if !line.IsWall() || line.AreaID != owner {
			diag.add(errors.ErrCodeMalformedReference, EntityObject, id, "line %q is not a simple wall of room %q", line.ID, owner)
		}
	}
}
