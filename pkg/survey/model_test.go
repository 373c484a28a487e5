package survey

import "testing"

func TestIsDoorType(t *testing.T) {
	for _, typ := range []string{TypeDoor, TypeDoubleSliding, TypeSingleSliding, TypeGarageDoor, TypeSingleFolding, TypeDoubleFolding} {
		if !IsDoorType(typ) {
			t.Errorf("IsDoorType(%q) = false, want true", typ)
		}
	}
	for _, typ := range []string{TypeOpening, TypeWindow, "radiator", ""} {
		if IsDoorType(typ) {
			t.Errorf("IsDoorType(%q) = true, want false", typ)
		}
	}
}

func TestFixtureAccessors(t *testing.T) {
	o := FixtureObject{RoomIDs: []string{"R1", "R2"}, WallID: StringPtr("W1")}
	if o.Owner() != "R1" {
		t.Errorf("Owner() = %q", o.Owner())
	}
	if far, ok := o.FarSide(); !ok || far != "R2" {
		t.Errorf("FarSide() = %q, %v", far, ok)
	}
	if !o.OnWall() || o.Wall() != "W1" {
		t.Errorf("OnWall/Wall = %v/%q", o.OnWall(), o.Wall())
	}

	var free FixtureObject
	if free.Owner() != "" || free.OnWall() || free.Wall() != "" {
		t.Error("zero fixture should have no owner and no wall")
	}
	if _, ok := free.FarSide(); ok {
		t.Error("zero fixture should have no far side")
	}
}

func TestHasGeometryFault(t *testing.T) {
	if HasGeometryFault(nil) {
		t.Error("nil faults should not be geometric")
	}
	if HasGeometryFault([]string{"color"}) {
		t.Error("color is not a geometry field")
	}
	if !HasGeometryFault([]string{"color", "height"}) {
		t.Error("height is a geometry field")
	}
}
