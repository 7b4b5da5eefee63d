// Package model defines the entities flowing through the feature pipeline.
package model

// LandUseClass is a closed enumeration of recognized land-use classes. The
// 18 whitelisted categories are followed by the catch-all ClassOthers, so the
// pivoted column set is fixed regardless of what appears in any dataset.
type LandUseClass uint8

const (
	ClassResidential LandUseClass = iota
	ClassGrass
	ClassRetail
	ClassCommercial
	ClassIndustrial
	ClassBrownfield
	ClassReligious
	ClassConstruction
	ClassMeadow
	ClassForest
	ClassFarmland
	ClassRecreationGround
	ClassPlantNursery
	ClassRailway
	ClassCemetery
	ClassFarmyard
	ClassMilitary
	ClassVillageGreen
	ClassOthers

	// NumLandUseClasses is the size of the closed class set, ClassOthers included.
	NumLandUseClasses = int(ClassOthers) + 1
)

var landUseLabels = [NumLandUseClasses]string{
	"residential",
	"grass",
	"retail",
	"commercial",
	"industrial",
	"brownfield",
	"religious",
	"construction",
	"meadow",
	"forest",
	"farmland",
	"recreation_ground",
	"plant_nursery",
	"railway",
	"cemetery",
	"farmyard",
	"military",
	"village_green",
	"others",
}

// String returns the column label for the class.
func (c LandUseClass) String() string {
	if int(c) >= NumLandUseClasses {
		return "others"
	}
	return landUseLabels[c]
}

// LandUseClasses returns all classes in fixed column order.
func LandUseClasses() []LandUseClass {
	out := make([]LandUseClass, NumLandUseClasses)
	for i := range out {
		out[i] = LandUseClass(i)
	}
	return out
}

// RoadClass is a closed enumeration of the highway classes kept at load time.
type RoadClass uint8

const (
	RoadResidential RoadClass = iota
	RoadTertiary
	RoadSecondary
	RoadPrimary

	// NumRoadClasses is the size of the road class set.
	NumRoadClasses = int(RoadPrimary) + 1
)

var roadLabels = [NumRoadClasses]string{
	"residential",
	"tertiary",
	"secondary",
	"primary",
}

var roadColumns = [NumRoadClasses]string{
	"dist_res_m",
	"dist_ter_m",
	"dist_sec_m",
	"dist_pri_m",
}

// String returns the raw highway label for the class.
func (c RoadClass) String() string {
	if int(c) >= NumRoadClasses {
		return "unknown"
	}
	return roadLabels[c]
}

// Column returns the output column name for the class distance.
func (c RoadClass) Column() string {
	if int(c) >= NumRoadClasses {
		return "unknown"
	}
	return roadColumns[c]
}

// ParseRoadClass maps a raw highway label to its class. The second return is
// false for labels outside the whitelist; such segments are dropped at load.
func ParseRoadClass(raw string) (RoadClass, bool) {
	for i, label := range roadLabels {
		if raw == label {
			return RoadClass(i), true
		}
	}
	return 0, false
}

// RoadClasses returns all road classes in fixed column order.
func RoadClasses() []RoadClass {
	out := make([]RoadClass, NumRoadClasses)
	for i := range out {
		out[i] = RoadClass(i)
	}
	return out
}
