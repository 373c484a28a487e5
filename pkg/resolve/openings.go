package resolve

import (
	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/geom"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// Category is how a wall fixture is reported.
type Category int

const (
	// CategoryNone fixtures are dropped.
	CategoryNone Category = iota
	// CategoryOpening is a gap in the wall with no panel.
	CategoryOpening
	// CategoryDoor is a door-family fixture with a destination.
	CategoryDoor
	// CategoryWindow is a window.
	CategoryWindow
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryOpening:
		return "opening"
	case CategoryDoor:
		return "door"
	case CategoryWindow:
		return "window"
	default:
		return "none"
	}
}

// Classify decides the category of a wall fixture. Auxiliary copies are
// always openings: the primary record in the adjacent room owns the panel
// and the destination.
func Classify(o *survey.FixtureObject, unknownPolicy string) Category {
	switch {
	case o.Auxiliary || o.Type == survey.TypeOpening:
		return CategoryOpening
	case survey.IsDoorType(o.Type):
		return CategoryDoor
	case o.Type == survey.TypeWindow:
		return CategoryWindow
	case unknownPolicy == UnknownGap:
		return CategoryOpening
	default:
		return CategoryNone
	}
}

// Destination returns the name and id of the area on a door's far side.
// A door with a single room id, or whose second id matches no area in the
// design, leads to the exterior. Any area kind may be a destination.
func Destination(o *survey.FixtureObject, ix *survey.Index) (name, id string) {
	far, ok := o.FarSide()
	if !ok {
		return Exterior, ""
	}
	a, ok := ix.Area(far)
	if !ok {
		return Exterior, ""
	}
	return a.Name, a.ID
}

// PlaceFixture computes a fixture's world geometry on the wall p1-p2.
func PlaceFixture(p1, p2 geom.Point, o *survey.FixtureObject) Fixture {
	center := geom.InterpolateAlong(p1, p2, o.Along)
	a, b := geom.FixtureCenterline(center, o.Size.Width, o.Rotation.Z)
	return Fixture{
		ID:        o.ID,
		Type:      o.Type,
		Center:    center,
		P1:        a,
		P2:        b,
		Width:     o.Size.Width,
		Sill:      o.LocalOffset.Z,
		Lintel:    o.Size.Height,
		SetBack:   geom.SetBack(o.LocalOffset),
		Auxiliary: o.Auxiliary,
	}
}

// resolveWall places and classifies the fixtures mounted on one wall.
func resolveWall(line *survey.Line, fixtures []*survey.FixtureObject, ix *survey.Index, opts *Options, diag *diagnostics) Wall {
	p1, p2 := geom.WallEndpoints(line.Endpoints)
	w := Wall{
		ID:        line.ID,
		P1:        p1,
		P2:        p2,
		Length:    geom.WallLength(p1, p2),
		Direction: geom.WallDirection(p1, p2),
		Openings:  []Fixture{},
		Doors:     []Door{},
		Windows:   []Fixture{},
	}

	for _, o := range fixtures {
		if survey.HasGeometryFault(o.Malformed) {
			diag.add(errors.ErrCodeMalformedNumeric, EntityObject, ix.ObjectID(o), "unparseable fields %v", o.Malformed)
			continue
		}

		cat := Classify(o, opts.UnknownFixtures)
		if cat == CategoryNone {
			opts.Logger.Debug("ignoring fixture", "wall", line.ID, "type", o.Type)
			continue
		}

		f := PlaceFixture(p1, p2, o)
		switch cat {
		case CategoryOpening:
			w.Openings = append(w.Openings, f)
		case CategoryDoor:
			name, id := Destination(o, ix)
			w.Doors = append(w.Doors, Door{Fixture: f, Destination: name, DestinationID: id})
		case CategoryWindow:
			w.Windows = append(w.Windows, f)
		}
	}

	return w
}
