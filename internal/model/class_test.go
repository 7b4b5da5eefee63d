package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLandUseClasses_FixedOrder(t *testing.T) {
	classes := LandUseClasses()
	assert.Len(t, classes, NumLandUseClasses)
	assert.Equal(t, "residential", classes[0].String())
	assert.Equal(t, "village_green", classes[NumLandUseClasses-2].String())
	assert.Equal(t, "others", classes[NumLandUseClasses-1].String())
}

func TestLandUseClass_StringOutOfRange(t *testing.T) {
	assert.Equal(t, "others", LandUseClass(200).String())
}

func TestParseRoadClass(t *testing.T) {
	tests := []struct {
		raw  string
		want RoadClass
		ok   bool
	}{
		{"residential", RoadResidential, true},
		{"tertiary", RoadTertiary, true},
		{"secondary", RoadSecondary, true},
		{"primary", RoadPrimary, true},
		{"motorway", 0, false},
		{"service", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok := ParseRoadClass(tc.raw)
			assert.Equal(t, tc.ok, ok)
			if ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestRoadClass_Columns(t *testing.T) {
	want := []string{"dist_res_m", "dist_ter_m", "dist_sec_m", "dist_pri_m"}
	for i, c := range RoadClasses() {
		assert.Equal(t, want[i], c.Column())
	}
}
