package domain

import "testing"

func TestZoneLabel_Valid(t *testing.T) {
	for _, z := range []ZoneLabel{ZoneDeveloping, ZoneProgressing, ZoneEstablished} {
		if !z.Valid() {
			t.Errorf("%q should be valid", z)
		}
	}
	for _, z := range []ZoneLabel{"", "excellent", "Developing"} {
		if z.Valid() {
			t.Errorf("%q should not be valid", z)
		}
	}
}

func TestZoneLabel_Anchor(t *testing.T) {
	tests := []struct {
		label ZoneLabel
		want  int
	}{
		{ZoneDeveloping, 1},
		{ZoneProgressing, 2},
		{ZoneEstablished, 3},
	}
	for _, tt := range tests {
		got, ok := tt.label.Anchor()
		if !ok || got != tt.want {
			t.Errorf("Anchor(%q) = %d, %v, want %d, true", tt.label, got, ok, tt.want)
		}
	}

	if _, ok := ZoneLabel("unknown").Anchor(); ok {
		t.Error("Anchor() should reject labels outside the band set")
	}
}

func TestZoneSet_ByDimension(t *testing.T) {
	zs := ZoneSet{
		Academics:  ZoneEstablished,
		Skills:     ZoneProgressing,
		Experience: ZoneDeveloping,
		Clarity:    ZoneProgressing,
	}

	byDim := zs.ByDimension()
	if len(byDim) != len(Dimensions) {
		t.Fatalf("ByDimension() has %d entries, want %d", len(byDim), len(Dimensions))
	}
	if byDim[DimensionAcademics] != ZoneEstablished {
		t.Errorf("academics = %q", byDim[DimensionAcademics])
	}
	if byDim[DimensionExperience] != ZoneDeveloping {
		t.Errorf("experience = %q", byDim[DimensionExperience])
	}
}
