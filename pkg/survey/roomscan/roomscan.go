package roomscan

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/floorstack/pkg/errors"
	"github.com/matzehuels/floorstack/pkg/survey"
)

type xmlProject struct {
	XMLName xml.Name   `xml:"project"`
	Name    string     `xml:"name"`
	Floors  []xmlFloor `xml:"floors>floor"`
}

type xmlFloor struct {
	Name    string      `xml:"name"`
	Designs []xmlDesign `xml:"designs>design"`
}

type xmlDesign struct {
	Areas   []xmlArea   `xml:"areas>area"`
	Lines   []xmlLine   `xml:"lines>line"`
	Objects []xmlObject `xml:"objects>object"`
}

type xmlArea struct {
	ID     string `xml:"id,attr"`
	Type   string `xml:"type,attr"`
	Name   string `xml:"name"`
	Color  string `xml:"color"`
	Points string `xml:"points"`
	Height string `xml:"height"`
}

type xmlLine struct {
	ID     string `xml:"id,attr"`
	AreaID string `xml:"area-id,attr"`
	Type   string `xml:"type"`
	Points string `xml:"points"`
}

type xmlObject struct {
	ID        string      `xml:"id,attr"`
	Type      string      `xml:"type"`
	Auxiliary string      `xml:"auxiliary"`
	Points    string      `xml:"points"`
	Size      string      `xml:"size"`
	Rotation  string      `xml:"rotation"`
	Position  xmlPosition `xml:"position"`
}

type xmlPosition struct {
	Rooms string  `xml:"rooms"`
	Wall  *string `xml:"wall"`
	Along string  `xml:"along"`
}

// ParseFile reads a RoomScan export from disk.
func ParseFile(path string) (*survey.Building, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "survey file %s", path)
		}
		return nil, err
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a RoomScan export. It fails only when the document is not
// well-formed XML or has no <project> root.
func Parse(r io.Reader) (*survey.Building, error) {
	var p xmlProject
	if err := xml.NewDecoder(r).Decode(&p); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode roomscan xml")
	}

	b := &survey.Building{
		Name:   strings.TrimSpace(p.Name),
		Floors: make([]survey.Floor, 0, len(p.Floors)),
	}
	for _, f := range p.Floors {
		floor := survey.Floor{
			Name:    strings.TrimSpace(f.Name),
			Designs: make([]survey.Design, 0, len(f.Designs)),
		}
		for _, d := range f.Designs {
			floor.Designs = append(floor.Designs, convertDesign(d))
		}
		b.Floors = append(b.Floors, floor)
	}
	return b, nil
}

func convertDesign(d xmlDesign) survey.Design {
	out := survey.Design{
		Areas:   make([]survey.Area, 0, len(d.Areas)),
		Lines:   make([]survey.Line, 0, len(d.Lines)),
		Objects: make([]survey.FixtureObject, 0, len(d.Objects)),
	}
	for _, a := range d.Areas {
		out.Areas = append(out.Areas, convertArea(a))
	}
	for _, l := range d.Lines {
		out.Lines = append(out.Lines, convertLine(l))
	}
	for _, o := range d.Objects {
		out.Objects = append(out.Objects, convertObject(o))
	}
	return out
}

func convertArea(a xmlArea) survey.Area {
	out := survey.Area{
		ID:   strings.TrimSpace(a.ID),
		Kind: strings.TrimSpace(a.Type),
		Name: strings.TrimSpace(a.Name),
	}

	var ok bool
	if out.Color, ok = parseColor(a.Color); !ok {
		out.Malformed = append(out.Malformed, "color")
	}
	if out.Boundary, ok = parsePolygon(a.Points); !ok {
		out.Malformed = append(out.Malformed, "boundary")
	}
	if out.Height, ok = parseNumber(a.Height); !ok {
		out.Malformed = append(out.Malformed, "height")
	}
	return out
}

func convertLine(l xmlLine) survey.Line {
	out := survey.Line{
		ID:     strings.TrimSpace(l.ID),
		AreaID: strings.TrimSpace(l.AreaID),
		Kind:   strings.TrimSpace(l.Type),
	}
	var ok bool
	if out.Endpoints, ok = parseSegment(l.Points); !ok {
		out.Malformed = append(out.Malformed, "endpoints")
	}
	return out
}

func convertObject(o xmlObject) survey.FixtureObject {
	out := survey.FixtureObject{
		ID:        strings.TrimSpace(o.ID),
		Type:      strings.TrimSpace(o.Type),
		Auxiliary: strings.TrimSpace(o.Auxiliary) == "yes",
		RoomIDs:   splitRooms(o.Position.Rooms),
	}
	if o.Position.Wall != nil {
		out.WallID = survey.StringPtr(strings.TrimSpace(*o.Position.Wall))
	}

	var ok bool
	if out.WallID != nil {
		if out.Along, ok = parseNumber(o.Position.Along); !ok {
			out.Malformed = append(out.Malformed, "along")
		}
	}
	offset, ok := parseTriple(o.Points)
	if !ok {
		out.Malformed = append(out.Malformed, "local_offset")
	}
	out.LocalOffset = survey.Vec3{X: offset[0], Y: offset[1], Z: offset[2]}

	size, ok := parseTriple(o.Size)
	if !ok {
		out.Malformed = append(out.Malformed, "size")
	}
	out.Size = survey.Size3{Width: size[0], Depth: size[1], Height: size[2]}

	rot, ok := parseTriple(o.Rotation)
	if !ok {
		out.Malformed = append(out.Malformed, "rotation")
	}
	out.Rotation = survey.Vec3{X: rot[0], Y: rot[1], Z: rot[2]}
	return out
}

// splitRooms splits the comma separated room list. An empty list yields nil.
func splitRooms(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil
}

// parseFields parses every whitespace separated number in s.
func parseFields(s string) ([]float64, bool) {
	fields := strings.Fields(s)
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// parseTriple reads "x y z". Fewer than three values is a fault; values past
// the third are ignored.
func parseTriple(s string) ([3]float64, bool) {
	var out [3]float64
	v, ok := parseFields(s)
	if !ok || len(v) < 3 {
		return out, false
	}
	copy(out[:], v)
	return out, true
}

// parsePolygon reads "x y,x y,...". Each vertex may carry further values,
// which are ignored.
func parsePolygon(s string) ([]survey.Point, bool) {
	var pts []survey.Point
	for _, chunk := range strings.Split(s, ",") {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		v, ok := parseFields(chunk)
		if !ok || len(v) < 2 {
			return nil, false
		}
		pts = append(pts, survey.Point{X: v[0], Y: v[1]})
	}
	return pts, len(pts) > 0
}

// parseSegment reads the first comma separated chunk of a line's points as
// two 3D endpoints "x1 y1 z1 x2 y2 ..." and keeps x and y of each.
func parseSegment(s string) (survey.Segment, bool) {
	chunk, _, _ := strings.Cut(s, ",")
	v, ok := parseFields(chunk)
	if !ok || len(v) < 5 {
		return survey.Segment{}, false
	}
	return survey.Segment{X1: v[0], Y1: v[1], X2: v[3], Y2: v[4]}, true
}

// parseColor reads an HTML hex colour such as "#a0c4ff" or "#abc". An empty
// value is black and not a fault.
func parseColor(s string) (survey.RGB, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return survey.RGB{}, true
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return survey.RGB{}, false
	}
	r, g, b := c.RGB255()
	return survey.RGB{R: r, G: g, B: b}, true
}
