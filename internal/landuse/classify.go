// Package landuse recodes raw land-use categories into the closed class set.
package landuse

import "github.com/airsense-labs/sensorfeat/internal/model"

// whitelist maps the recognized raw categories to their classes. Anything
// outside it collapses to model.ClassOthers.
var whitelist = map[string]model.LandUseClass{
	"residential":       model.ClassResidential,
	"grass":             model.ClassGrass,
	"retail":            model.ClassRetail,
	"commercial":        model.ClassCommercial,
	"industrial":        model.ClassIndustrial,
	"brownfield":        model.ClassBrownfield,
	"religious":         model.ClassReligious,
	"construction":      model.ClassConstruction,
	"meadow":            model.ClassMeadow,
	"forest":            model.ClassForest,
	"farmland":          model.ClassFarmland,
	"recreation_ground": model.ClassRecreationGround,
	"plant_nursery":     model.ClassPlantNursery,
	"railway":           model.ClassRailway,
	"cemetery":          model.ClassCemetery,
	"farmyard":          model.ClassFarmyard,
	"military":          model.ClassMilitary,
	"village_green":     model.ClassVillageGreen,
}

// Classify returns the class for a raw category. Total: every input yields
// exactly one class.
func Classify(raw string) model.LandUseClass {
	if c, ok := whitelist[raw]; ok {
		return c
	}
	return model.ClassOthers
}

// ClassifyParcels recodes a parcel collection in place and returns it.
func ClassifyParcels(parcels []model.LandUseParcel) []model.LandUseParcel {
	for i := range parcels {
		parcels[i].Class = Classify(parcels[i].RawCategory)
	}
	return parcels
}
