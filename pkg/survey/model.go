package survey

// Area kinds. Only rooms are resolved geometrically.
const KindRoom = "room"

// Line kinds. Only simple walls carry fixtures.
const KindSimpleWall = "simple_wall"

// Fixture types recognised by the resolver. Any other type string is kept
// verbatim on the record.
const (
	TypeOpening       = "opening"
	TypeDoor          = "door"
	TypeDoubleSliding = "double-sliding"
	TypeSingleSliding = "single-sliding"
	TypeGarageDoor    = "garage-door"
	TypeSingleFolding = "single-folding"
	TypeDoubleFolding = "double-folding"
	TypeWindow        = "window"
)

// doorTypes is the door family: fixtures with a panel that lead somewhere.
var doorTypes = map[string]bool{
	TypeDoor:          true,
	TypeDoubleSliding: true,
	TypeSingleSliding: true,
	TypeGarageDoor:    true,
	TypeSingleFolding: true,
	TypeDoubleFolding: true,
}

// IsDoorType reports whether t belongs to the door family.
func IsDoorType(t string) bool { return doorTypes[t] }

// Building is the root of a survey.
type Building struct {
	Name   string  `json:"name"`
	Floors []Floor `json:"floors"`
}

// Floor is one storey. Its vertical level is not stored here; it is derived
// while resolving from the heights of the floors before it.
type Floor struct {
	Name    string   `json:"name"`
	Designs []Design `json:"designs"`
}

// Design is a single floor plan.
type Design struct {
	Areas   []Area          `json:"areas"`
	Lines   []Line          `json:"lines"`
	Objects []FixtureObject `json:"objects"`
}

// Point is a position in a floor's local frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Vec3 is a local-frame triple (offsets or rotations in degrees).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Size3 is a fixture's bounding size.
type Size3 struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// RGB is an 8-bit colour.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// Segment is a wall's two endpoints in the local frame.
type Segment struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Area is a closed region. Boundary order is the polygon winding order.
type Area struct {
	ID       string  `json:"id"`
	Kind     string  `json:"kind"`
	Name     string  `json:"name"`
	Color    RGB     `json:"color"`
	Boundary []Point `json:"boundary"`
	Height   float64 `json:"height"`

	// Malformed names fields the reader could not parse.
	Malformed []string `json:"malformed,omitempty"`
}

// IsRoom reports whether the area is resolved as a room.
func (a *Area) IsRoom() bool { return a.Kind == KindRoom }

// Line is a wall segment owned by the area AreaID.
type Line struct {
	ID        string  `json:"id"`
	AreaID    string  `json:"area_id"`
	Kind      string  `json:"kind"`
	Endpoints Segment `json:"endpoints"`

	Malformed []string `json:"malformed,omitempty"`
}

// IsWall reports whether the line is a simple wall.
func (l *Line) IsWall() bool { return l.Kind == KindSimpleWall }

// FixtureObject is a wall-mounted item. RoomIDs[0] owns it; a second entry
// names the room on the far side of a connector.
//
// Auxiliary marks a room's copy of a connector whose primary record lives in
// the adjacent room. It only signals that a gap is cut in this room's wall.
type FixtureObject struct {
	ID          string   `json:"id,omitempty"`
	RoomIDs     []string `json:"room_ids"`
	WallID      *string  `json:"wall_id,omitempty"`
	Along       float64  `json:"along"`
	LocalOffset Vec3     `json:"local_offset"`
	Size        Size3    `json:"size"`
	Rotation    Vec3     `json:"rotation"`
	Auxiliary   bool     `json:"auxiliary,omitempty"`
	Type        string   `json:"type"`

	Malformed []string `json:"malformed,omitempty"`
}

// Owner returns RoomIDs[0], or "" when the list is empty.
func (o *FixtureObject) Owner() string {
	if len(o.RoomIDs) == 0 {
		return ""
	}
	return o.RoomIDs[0]
}

// FarSide returns RoomIDs[1] and whether it is present.
func (o *FixtureObject) FarSide() (string, bool) {
	if len(o.RoomIDs) < 2 {
		return "", false
	}
	return o.RoomIDs[1], true
}

// OnWall reports whether the fixture is wall-mounted.
func (o *FixtureObject) OnWall() bool { return o.WallID != nil }

// Wall returns the wall id, or "" for free-standing objects.
func (o *FixtureObject) Wall() string {
	if o.WallID == nil {
		return ""
	}
	return *o.WallID
}

// StringPtr returns a pointer to s. It is a convenience for building
// FixtureObject.WallID in code and tests.
func StringPtr(s string) *string { return &s }

// Fields reported in Malformed that carry geometry. A fault in any of these
// makes the entity unresolvable; other faults (colour) are informational.
var geometryFields = map[string]bool{
	"boundary":     true,
	"height":       true,
	"endpoints":    true,
	"along":        true,
	"local_offset": true,
	"size":         true,
	"rotation":     true,
}

// HasGeometryFault reports whether any of the malformed fields is geometric.
func HasGeometryFault(malformed []string) bool {
	for _, f := range malformed {
		if geometryFields[f] {
			return true
		}
	}
	return false
}
