package resolve

import "gonum.org/v1/gonum/floats"

// FloorHeight is the tallest room height on a floor, or 0 with no rooms.
func FloorHeight(rooms []Room) float64 {
	if len(rooms) == 0 {
		return 0
	}
	heights := make([]float64, len(rooms))
	for i, r := range rooms {
		heights[i] = r.Height
	}
	return floats.Max(heights)
}

// stackFloor is one step of the floor fold. The floor is emitted at the
// current level and the next floor starts one floor-height lower.
func stackFloor(level float64, name string, rooms []Room) (float64, Floor) {
	h := FloorHeight(rooms)
	return level - h, Floor{
		Name:   name,
		Level:  level,
		Height: h,
		Rooms:  rooms,
	}
}

// FloorLevels returns the level of each floor given the floor heights in
// input order: 0 for the first floor, then minus the running total of the
// heights before it. It equals the sequential fold and lets floors be
// resolved independently.
func FloorLevels(heights []float64) []float64 {
	levels := make([]float64, len(heights))
	if len(heights) < 2 {
		return levels
	}
	sums := floats.CumSum(make([]float64, len(heights)-1), heights[:len(heights)-1])
	for i, s := range sums {
		levels[i+1] = levels[0] - s
	}
	return levels
}
