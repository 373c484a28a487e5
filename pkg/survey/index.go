package survey

import "strconv"

// Duplicate records an identifier that appeared more than once in a design.
// The first record with the id wins; later ones are left out of the index.
type Duplicate struct {
	Kind string // "area" or "line"
	ID   string
}

// Index gives O(1) identifier lookup over a single design.
//
// It is built once per design before resolution. Lookups return an explicit
// found flag instead of an empty fallback. Groupings keep the design's input
// order so resolution output is deterministic.
type Index struct {
	rooms      []*Area
	ordered    []*Line
	areas      map[string]*Area
	lines      map[string]*Line
	walls      map[string][]*Line
	fixtures   map[string][]*FixtureObject
	objects    map[*FixtureObject]string
	duplicates []Duplicate
}

// NewIndex builds the index for d. The index points into d, so d must not be
// modified while the index is in use.
func NewIndex(d *Design) *Index {
	ix := &Index{
		areas:    make(map[string]*Area, len(d.Areas)),
		lines:    make(map[string]*Line, len(d.Lines)),
		walls:    make(map[string][]*Line),
		fixtures: make(map[string][]*FixtureObject),
		objects:  make(map[*FixtureObject]string, len(d.Objects)),
	}

	for i := range d.Areas {
		a := &d.Areas[i]
		if _, ok := ix.areas[a.ID]; ok {
			ix.duplicates = append(ix.duplicates, Duplicate{Kind: "area", ID: a.ID})
			continue
		}
		ix.areas[a.ID] = a
		if a.IsRoom() {
			ix.rooms = append(ix.rooms, a)
		}
	}

	for i := range d.Lines {
		l := &d.Lines[i]
		if _, ok := ix.lines[l.ID]; ok {
			ix.duplicates = append(ix.duplicates, Duplicate{Kind: "line", ID: l.ID})
			continue
		}
		ix.lines[l.ID] = l
		ix.ordered = append(ix.ordered, l)
		if l.IsWall() {
			ix.walls[l.AreaID] = append(ix.walls[l.AreaID], l)
		}
	}

	for i := range d.Objects {
		o := &d.Objects[i]
		if o.ID != "" {
			ix.objects[o] = o.ID
		} else {
			ix.objects[o] = "#" + strconv.Itoa(i)
		}
		if owner := o.Owner(); owner != "" {
			ix.fixtures[owner] = append(ix.fixtures[owner], o)
		}
	}

	return ix
}

// Rooms returns the areas of kind room in input order.
func (ix *Index) Rooms() []*Area { return ix.rooms }

// Area looks up any area (room or not) by id.
func (ix *Index) Area(id string) (*Area, bool) {
	a, ok := ix.areas[id]
	return a, ok
}

// Line looks up any line by id.
func (ix *Index) Line(id string) (*Line, bool) {
	l, ok := ix.lines[id]
	return l, ok
}

// Walls returns the simple walls owned by the area id, in input order.
func (ix *Index) Walls(areaID string) []*Line { return ix.walls[areaID] }

// Fixtures returns the objects whose first room id is roomID, in input order.
func (ix *Index) Fixtures(roomID string) []*FixtureObject { return ix.fixtures[roomID] }

// ObjectID names an object of the indexed design. Objects without an id are
// named by their position in the design, as "#<index>".
func (ix *Index) ObjectID(o *FixtureObject) string {
	if id, ok := ix.objects[o]; ok {
		return id
	}
	return o.ID
}

// Duplicates returns identifiers that occurred more than once.
func (ix *Index) Duplicates() []Duplicate { return ix.duplicates }

// OrphanWalls returns simple walls whose owning area id matches no area,
// in input order.
func (ix *Index) OrphanWalls() []*Line {
	var out []*Line
	for _, l := range ix.ordered {
		if l.IsWall() {
			if _, ok := ix.areas[l.AreaID]; !ok {
				out = append(out, l)
			}
		}
	}
	return out
}
