package geom

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/floorstack/pkg/survey"
)

// Point is a world-space position.
type Point = orb.Point

// ToWorld reflects a local point into world space: (x, y) -> (x, -y).
// Applying it twice returns the original point.
func ToWorld(p Point) Point {
	return Point{p[0], -p[1]}
}

// FromSurvey converts a survey point and maps it to world space.
func FromSurvey(p survey.Point) Point {
	return ToWorld(Point{p.X, p.Y})
}

// Boundary maps a local polygon into world space, keeping winding order.
func Boundary(pts []survey.Point) orb.Ring {
	out := make(orb.Ring, len(pts))
	for i, p := range pts {
		out[i] = FromSurvey(p)
	}
	return out
}

// WallEndpoints returns a segment's endpoints in world space.
func WallEndpoints(s survey.Segment) (Point, Point) {
	return ToWorld(Point{s.X1, s.Y1}), ToWorld(Point{s.X2, s.Y2})
}

// WallLength is the Euclidean distance between two world endpoints.
func WallLength(a, b Point) float64 {
	return planar.Distance(a, b)
}

// InterpolateAlong returns b*t + a*(1-t). t is not clamped, so values
// outside [0, 1] extrapolate past the segment ends.
func InterpolateAlong(a, b Point, t float64) Point {
	return Point{
		b[0]*t + a[0]*(1-t),
		b[1]*t + a[1]*(1-t),
	}
}

// FixtureCenterline returns the two endpoints of a fixture's centerline.
// The rotation about z is negated to follow the y reflection.
func FixtureCenterline(c Point, width, rotationZDeg float64) (Point, Point) {
	angle := -rotationZDeg * math.Pi / 180
	dx := width * math.Cos(angle)
	dy := width * math.Sin(angle)
	return Point{c[0] + dx, c[1] + dy}, Point{c[0] - dx, c[1] - dy}
}

// WallDirection is the world-space direction angle of a wall in radians.
func WallDirection(a, b Point) float64 {
	return math.Atan2(b[1]-a[1], b[0]-a[0])
}

// SetBack returns a fixture's own reference point in world space. It is not
// applied to the centerline.
func SetBack(offset survey.Vec3) Point {
	return ToWorld(Point{offset.X, offset.Y})
}

// RingArea returns the unsigned footprint area of a boundary. The ring is
// closed first if the survey left it open.
func RingArea(r orb.Ring) float64 {
	if len(r) < 3 {
		return 0
	}
	if !r.Closed() {
		closed := make(orb.Ring, len(r), len(r)+1)
		copy(closed, r)
		r = append(closed, r[0])
	}
	return math.Abs(planar.Area(r))
}

// Bounds returns the bounding box of a set of points.
func Bounds(pts []Point) orb.Bound {
	return orb.MultiPoint(pts).Bound()
}
