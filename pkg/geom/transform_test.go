package geom

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/matzehuels/floorstack/pkg/survey"
)

const tol = 1e-9

func near(a, b Point) bool {
	return scalar.EqualWithinAbs(a[0], b[0], tol) && scalar.EqualWithinAbs(a[1], b[1], tol)
}

var samplePoints = []Point{
	{0, 0},
	{1, 2},
	{-3.5, 4.25},
	{7, -0.001},
	{1e6, -1e6},
}

func TestToWorldIsSelfInverse(t *testing.T) {
	for _, p := range samplePoints {
		if got := ToWorld(ToWorld(p)); got != p {
			t.Errorf("ToWorld(ToWorld(%v)) = %v", p, got)
		}
	}
}

func TestToWorldFlipsY(t *testing.T) {
	if got := ToWorld(Point{3, 4}); got != (Point{3, -4}) {
		t.Errorf("ToWorld(3,4) = %v, want (3,-4)", got)
	}
	if got := FromSurvey(survey.Point{X: 1, Y: -2}); got != (Point{1, 2}) {
		t.Errorf("FromSurvey(1,-2) = %v, want (1,2)", got)
	}
}

func TestBoundaryKeepsOrder(t *testing.T) {
	ring := Boundary([]survey.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}})
	want := orb.Ring{{0, 0}, {4, 0}, {4, -3}}
	if len(ring) != len(want) {
		t.Fatalf("Boundary() len = %d, want %d", len(ring), len(want))
	}
	for i := range want {
		if ring[i] != want[i] {
			t.Errorf("Boundary()[%d] = %v, want %v", i, ring[i], want[i])
		}
	}
}

func TestWallLengthSymmetric(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			if WallLength(a, b) != WallLength(b, a) {
				t.Errorf("WallLength(%v,%v) != WallLength(%v,%v)", a, b, b, a)
			}
		}
	}
	if got := WallLength(Point{0, 0}, Point{3, 4}); !scalar.EqualWithinAbs(got, 5, tol) {
		t.Errorf("WallLength 3-4-5 = %v, want 5", got)
	}
}

func TestInterpolateAlongEndpoints(t *testing.T) {
	for _, a := range samplePoints {
		for _, b := range samplePoints {
			if got := InterpolateAlong(a, b, 0); !near(got, a) {
				t.Errorf("InterpolateAlong(%v,%v,0) = %v, want %v", a, b, got, a)
			}
			if got := InterpolateAlong(a, b, 1); !near(got, b) {
				t.Errorf("InterpolateAlong(%v,%v,1) = %v, want %v", a, b, got, b)
			}
		}
	}
}

func TestInterpolateAlongExtrapolates(t *testing.T) {
	a, b := Point{0, 0}, Point{4, 0}
	tests := []struct {
		t    float64
		want Point
	}{
		{0.5, Point{2, 0}},
		{-0.25, Point{-1, 0}},
		{1.5, Point{6, 0}},
	}
	for _, tt := range tests {
		if got := InterpolateAlong(a, b, tt.t); !near(got, tt.want) {
			t.Errorf("InterpolateAlong(t=%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestFixtureCenterline(t *testing.T) {
	tests := []struct {
		name   string
		c      Point
		width  float64
		rz     float64
		p1, p2 Point
	}{
		{"no rotation", Point{2, 0}, 0.9, 0, Point{2.9, 0}, Point{1.1, 0}},
		{"quarter turn", Point{0, 0}, 1, 90, Point{0, -1}, Point{0, 1}},
		{"half turn", Point{1, 1}, 0.5, 180, Point{0.5, 1}, Point{1.5, 1}},
		{"zero width", Point{5, 5}, 0, 33, Point{5, 5}, Point{5, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p1, p2 := FixtureCenterline(tt.c, tt.width, tt.rz)
			if !near(p1, tt.p1) || !near(p2, tt.p2) {
				t.Errorf("FixtureCenterline() = %v, %v; want %v, %v", p1, p2, tt.p1, tt.p2)
			}
		})
	}
}

func TestWallDirection(t *testing.T) {
	tests := []struct {
		a, b Point
		want float64
	}{
		{Point{0, 0}, Point{1, 0}, 0},
		{Point{0, 0}, Point{0, 1}, math.Pi / 2},
		{Point{0, 0}, Point{-1, 0}, math.Pi},
		{Point{1, 1}, Point{0, 0}, -3 * math.Pi / 4},
	}
	for _, tt := range tests {
		if got := WallDirection(tt.a, tt.b); !scalar.EqualWithinAbs(got, tt.want, tol) {
			t.Errorf("WallDirection(%v,%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSetBack(t *testing.T) {
	if got := SetBack(survey.Vec3{X: 1, Y: 2, Z: 0.8}); got != (Point{1, -2}) {
		t.Errorf("SetBack() = %v, want (1,-2)", got)
	}
}

func TestRingArea(t *testing.T) {
	square := orb.Ring{{0, 0}, {4, 0}, {4, -4}, {0, -4}}
	if got := RingArea(square); !scalar.EqualWithinAbs(got, 16, tol) {
		t.Errorf("RingArea(open square) = %v, want 16", got)
	}

	reversed := orb.Ring{{0, -4}, {4, -4}, {4, 0}, {0, 0}, {0, -4}}
	if got := RingArea(reversed); !scalar.EqualWithinAbs(got, 16, tol) {
		t.Errorf("RingArea(closed reversed square) = %v, want 16", got)
	}

	if got := RingArea(orb.Ring{{0, 0}, {1, 1}}); got != 0 {
		t.Errorf("RingArea(degenerate) = %v, want 0", got)
	}

	// Closing must not write into the caller's backing array.
	backing := make(orb.Ring, 3, 8)
	copy(backing, orb.Ring{{0, 0}, {2, 0}, {2, 2}})
	RingArea(backing)
	if backing[:4][3] != (Point{}) {
		t.Error("RingArea mutated the input ring's spare capacity")
	}
}

func TestBounds(t *testing.T) {
	b := Bounds([]Point{{1, -2}, {-3, 4}, {0, 0}})
	if b.Min != (Point{-3, -2}) || b.Max != (Point{1, 4}) {
		t.Errorf("Bounds() = %v", b)
	}
}
