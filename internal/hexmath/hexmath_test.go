package hexmath

import (
	"math"
	"testing"
)

func TestPixelRoundTrip(t *testing.T) {
	layouts := []Layout{
		{Orientation: PointyTop, Size: 24},
		{Orientation: FlatTop, Size: 24},
		{Orientation: PointyTop, Size: 7.5},
	}
	for _, l := range layouts {
		for q := -10; q <= 10; q++ {
			for r := -10; r <= 10; r++ {
				c := Coord{Q: q, R: r}
				got := FromPixel(ToPixel(c, l), l)
				if got != c {
					t.Fatalf("layout %+v: round trip of %+v gave %+v", l, c, got)
				}
			}
		}
	}
}

func TestFromPixelInteriorPoints(t *testing.T) {
	l := Layout{Orientation: PointyTop, Size: 20}
	c := Coord{Q: 3, R: -2}
	center := ToPixel(c, l)

	// Points well inside the hex must all resolve to the same cell.
	for i := 0; i < 6; i++ {
		corner := Corner(center, l, i)
		inside := Point{
			X: center.X + (corner.X-center.X)*0.6,
			Y: center.Y + (corner.Y-center.Y)*0.6,
		}
		if got := FromPixel(inside, l); got != c {
			t.Fatalf("interior point near corner %d resolved to %+v, want %+v", i, got, c)
		}
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, o := range []Orientation{PointyTop, FlatTop} {
		for col := 0; col < 20; col++ {
			for row := 0; row < 20; row++ {
				c := OffsetToAxial(col, row, o)
				gc, gr := AxialToOffset(c, o)
				if gc != col || gr != row {
					t.Fatalf("orientation %d: (%d,%d) -> %+v -> (%d,%d)", o, col, row, c, gc, gr)
				}
			}
		}
	}
}

func TestOffsetGridUnique(t *testing.T) {
	seen := make(map[Coord]bool)
	for col := 0; col < 16; col++ {
		for row := 0; row < 16; row++ {
			c := OffsetToAxial(col, row, PointyTop)
			if seen[c] {
				t.Fatalf("duplicate axial coordinate %+v for (%d,%d)", c, col, row)
			}
			seen[c] = true
		}
	}
	if len(seen) != 256 {
		t.Fatalf("expected 256 unique coordinates, got %d", len(seen))
	}
}

func TestNeighborsAreDistanceOne(t *testing.T) {
	c := Coord{Q: 4, R: -7}
	for i, n := range Neighbors(c) {
		if Distance(c, n) != 1 {
			t.Fatalf("neighbor %d at %+v is not adjacent to %+v", i, n, c)
		}
	}
}

func TestDirectionsSumToZero(t *testing.T) {
	var sum Coord
	for _, d := range Directions {
		sum = sum.Add(d)
	}
	if sum != (Coord{}) {
		t.Fatalf("direction vectors must cancel, got %+v", sum)
	}
	// Opposite directions are three apart in the clockwise table.
	for i := 0; i < 3; i++ {
		if Directions[i].Add(Directions[i+3]) != (Coord{}) {
			t.Fatalf("directions %d and %d are not opposite", i, i+3)
		}
	}
}

func TestRingSizeAndDistance(t *testing.T) {
	center := Coord{Q: 2, R: 2}
	for radius := 1; radius <= 5; radius++ {
		ring := Ring(center, radius)
		if len(ring) != 6*radius {
			t.Fatalf("ring radius %d has %d coords, want %d", radius, len(ring), 6*radius)
		}
		for _, c := range ring {
			if Distance(center, c) != radius {
				t.Fatalf("ring coord %+v at distance %d, want %d", c, Distance(center, c), radius)
			}
		}
	}
	if got := Ring(center, 0); len(got) != 1 || got[0] != center {
		t.Fatalf("zero-radius ring should be the center, got %v", got)
	}
}

func TestRangeSize(t *testing.T) {
	center := Coord{Q: -1, R: 3}
	for radius := 0; radius <= 4; radius++ {
		want := 3*radius*(radius+1) + 1
		got := Range(center, radius)
		if len(got) != want {
			t.Fatalf("range radius %d has %d coords, want %d", radius, len(got), want)
		}
		for _, c := range got {
			if Distance(center, c) > radius {
				t.Fatalf("range coord %+v beyond radius %d", c, radius)
			}
		}
	}
}

func TestCornersOnCircle(t *testing.T) {
	for _, o := range []Orientation{PointyTop, FlatTop} {
		l := Layout{Orientation: o, Size: 13}
		center := ToPixel(Coord{Q: 1, R: 1}, l)
		for i, p := range Corners(center, l) {
			d := math.Hypot(p.X-center.X, p.Y-center.Y)
			if math.Abs(d-l.Size) > 1e-9 {
				t.Fatalf("orientation %d corner %d at distance %f, want %f", o, i, d, l.Size)
			}
		}
	}
}

func TestAdjacentHexesShareTwoCorners(t *testing.T) {
	l := Layout{Orientation: PointyTop, Size: 16}
	a := Coord{Q: 0, R: 0}
	for dir := 0; dir < 6; dir++ {
		b := Neighbor(a, dir)
		ca := Corners(ToPixel(a, l), l)
		cb := Corners(ToPixel(b, l), l)
		shared := 0
		for _, pa := range ca {
			for _, pb := range cb {
				if math.Hypot(pa.X-pb.X, pa.Y-pb.Y) < 1e-6 {
					shared++
				}
			}
		}
		if shared != 2 {
			t.Fatalf("direction %d: neighbors share %d corners, want 2", dir, shared)
		}
	}
}

func TestDistanceTriangleInequality(t *testing.T) {
	a := Coord{Q: -3, R: 5}
	b := Coord{Q: 4, R: -1}
	c := Coord{Q: 0, R: 0}
	if Distance(a, b) > Distance(a, c)+Distance(c, b) {
		t.Fatal("triangle inequality violated")
	}
	if Distance(a, b) != Distance(b, a) {
		t.Fatal("distance is not symmetric")
	}
}
