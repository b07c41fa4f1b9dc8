// Package domain models crop suitability scoring against observed weather
// and soil conditions.
//
// # Crop Profiles
//
// Each crop in a [Catalog] carries its ideal growing envelope:
//
//	Temperature:  inclusive [min, max] in °C
//	Humidity:     lower bound only, relative humidity in %
//	Rainfall:     lower bound only, mm per 30-day month
//	Soil pH:      inclusive [min, max] on the 0–14 scale
//
// The built-in table ([DefaultCatalog]) holds ten field crops. Alternate
// tables are loaded from YAML with [LoadCatalogFile] and injected into a
// [Scorer], so nothing in this package reads a global catalog.
//
// # Rainfall Units
//
// Weather providers report hourly precipitation. The scorer compares a
// monthly estimate against each crop's minimum:
//
//	monthly = average hourly × 24 × 30
//
// An hourly average of 0.2 mm is therefore 144 mm/month.
//
// # Penalty
//
// Lower is better; 0 means every known reading sits inside the crop's range.
//
//	Temperature, pH:  distance to the nearest bound / range midpoint
//	Humidity:         (min - observed) / min, 0 when min is 0
//	Rainfall:         (min - monthly) / min; 0.1 when min is 0 and it rained
//
// Range terms are relative: a 5 °C miss on a cool-season crop costs more
// than the same miss on a warm-season one.
//
// # Missing Soil Data
//
// Without a known soil pH no ranking is produced. [Recommendation.NoSoilData]
// is set and [Recommendation.Names] yields the single [NoSoilDataSentinel]
// entry in place of crop names. Knowledge of a reading is carried by
// [Reading.Known], so a measured pH of exactly 0 is distinct from absence.
package domain
