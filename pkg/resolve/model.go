package resolve

import (
	"github.com/paulmach/orb"

	"github.com/matzehuels/floorstack/pkg/geom"
	"github.com/matzehuels/floorstack/pkg/survey"
)

// Exterior is the destination of doors that do not lead to a known area.
const Exterior = "exterior"

// Building is a fully resolved survey.
type Building struct {
	Name        string       `json:"name"`
	Floors      []Floor      `json:"floors"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// Floor is one storey placed at Level. Height is the tallest room on it.
type Floor struct {
	Name   string  `json:"name"`
	Level  float64 `json:"level"`
	Height float64 `json:"height"`
	Rooms  []Room  `json:"rooms"`
}

// Room is a resolved room area.
type Room struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Color    survey.RGB `json:"color"`
	Height   float64    `json:"height"`
	Area     float64    `json:"area"`
	Boundary orb.Ring   `json:"boundary"`
	Walls    []Wall     `json:"walls"`
}

// Wall is a resolved simple wall with the fixtures mounted on it.
// Direction is the wall's world angle in radians.
type Wall struct {
	ID        string     `json:"id"`
	P1        geom.Point `json:"p1"`
	P2        geom.Point `json:"p2"`
	Length    float64    `json:"length"`
	Direction float64    `json:"direction"`
	Openings  []Fixture  `json:"openings"`
	Doors     []Door     `json:"doors"`
	Windows   []Fixture  `json:"windows"`
}

// Fixture is a wall fixture's world-space centerline.
//
// The centerline is anchored on the wall at Center. SetBack is the fixture's
// own reference point, which may sit back from the wall plane; it is not
// applied to the centerline.
type Fixture struct {
	ID        string     `json:"id,omitempty"`
	Type      string     `json:"type"`
	Center    geom.Point `json:"center"`
	P1        geom.Point `json:"p1"`
	P2        geom.Point `json:"p2"`
	Width     float64    `json:"width"`
	Sill      float64    `json:"sill"`
	Lintel    float64    `json:"lintel"`
	SetBack   geom.Point `json:"set_back"`
	Auxiliary bool       `json:"auxiliary,omitempty"`
}

// Door is a door-family fixture and where it leads.
type Door struct {
	Fixture
	Destination   string `json:"destination"`
	DestinationID string `json:"destination_id,omitempty"`
}

// Counts summarises a resolved building.
type Counts struct {
	Floors   int
	Rooms    int
	Walls    int
	Openings int
	Doors    int
	Windows  int
}

// Count tallies the resolved entities in b.
func (b *Building) Count() Counts {
	c := Counts{Floors: len(b.Floors)}
	for _, f := range b.Floors {
		c.Rooms += len(f.Rooms)
		for _, r := range f.Rooms {
			c.Walls += len(r.Walls)
			for _, w := range r.Walls {
				c.Openings += len(w.Openings)
				c.Doors += len(w.Doors)
				c.Windows += len(w.Windows)
			}
		}
	}
	return c
}
