// Package mask applies the layered exclusion rules that turn raw VNP46A2
// radiance into an analysis-ready grid: fill values, poor quality, missing
// retrievals, clouds and sea water are all removed and replaced with a
// single no-data sentinel.
package mask

import (
	"fmt"
	"math"

	"github.com/skyglowlab/skyglow/internal/qa"
	"github.com/skyglowlab/skyglow/internal/raster"
)

// Radiance scaling. The fill comparison is defined in scaled units, so
// scaling must happen before any rule is evaluated.
const (
	ScaleFactor     = 0.1
	ScaledFillValue = 6553.5 // raw 65535 after scaling
)

// NoData is the sentinel written into every excluded cell of the final
// output.
var NoData = math.NaN()

// Rule is one exclusion rule: cells of the condition band matching Value
// are excluded from the radiance grid.
type Rule struct {
	Name  string
	Band  *raster.Band
	Value float64
}

// Excludes reports whether the rule excludes the cell at index i.
func (r Rule) Excludes(i int) bool { return r.Band.Data[i] == r.Value }

// Pipeline holds the ordered rule sequence for one granule. Exclusion is
// monotonic: the grid only ever grows as rules are applied, so the final
// grid equals the union of the per-rule grids regardless of order.
type Pipeline struct {
	rules []Rule
}

// NewPipeline assembles the five VNP46A2 exclusion rules in documented
// order. scaled is the radiance band after scaling; quality is the
// Mandatory_Quality_Flag band; cloudConfidence and landWater are the
// bit-fields pre-decoded from QF_Cloud_Mask.
func NewPipeline(scaled, quality, cloudConfidence, landWater *raster.Band) *Pipeline {
	return &Pipeline{rules: []Rule{
		{Name: "fill_value", Band: scaled, Value: ScaledFillValue},
		{Name: "poor_quality", Band: quality, Value: qa.QualityPoor},
		{Name: "no_retrieval", Band: quality, Value: qa.QualityNoRetrieval},
		{Name: "probably_cloudy", Band: cloudConfidence, Value: qa.CloudProbablyCloudy},
		{Name: "confident_cloudy", Band: cloudConfidence, Value: qa.CloudConfidentCloudy},
		{Name: "sea_water", Band: landWater, Value: qa.LandWaterSeaWater},
	}}
}

// Outcome is the accumulated result of a pipeline run.
type Outcome struct {
	// Exclusion marks every cell removed by at least one rule.
	Exclusion []bool
	// ExcludedAfter[k] is the cumulative excluded-cell count after rule
	// k was applied; non-decreasing by construction.
	ExcludedAfter []int
	// RuleNames parallels ExcludedAfter.
	RuleNames []string
}

// Run evaluates all rules against the radiance grid shape. Every condition
// band must match the radiance band's shape.
func (p *Pipeline) Run(scaled *raster.Band) (*Outcome, error) {
	out := &Outcome{
		Exclusion:     make([]bool, scaled.Len()),
		ExcludedAfter: make([]int, 0, len(p.rules)),
		RuleNames:     make([]string, 0, len(p.rules)),
	}
	excluded := 0
	for _, rule := range p.rules {
		if !rule.Band.SameShape(scaled) {
			return nil, fmt.Errorf("rule %s: band shape %dx%d does not match radiance %dx%d",
				rule.Name, rule.Band.Width, rule.Band.Height, scaled.Width, scaled.Height)
		}
		for i := range out.Exclusion {
			if !out.Exclusion[i] && rule.Excludes(i) {
				out.Exclusion[i] = true
				excluded++
			}
		}
		out.ExcludedAfter = append(out.ExcludedAfter, excluded)
		out.RuleNames = append(out.RuleNames, rule.Name)
	}
	return out, nil
}

// Scale converts raw integer radiance to physical units. The result is a
// new float64 band; the input is left untouched.
func Scale(raw *raster.Band) *raster.Band {
	scaled := raster.NewBand(raw.Name, raw.Width, raw.Height, raster.PixelFloat64)
	for i, v := range raw.Data {
		scaled.Data[i] = v * ScaleFactor
	}
	return scaled
}

// Fill produces the final output band: every excluded cell holds the
// no-data sentinel, every retained cell its scaled radiance.
func Fill(scaled *raster.Band, exclusion []bool, nodata float64) *raster.Band {
	filled := raster.NewBand(scaled.Name, scaled.Width, scaled.Height, raster.PixelFloat64)
	copy(filled.Data, scaled.Data)
	for i, excluded := range exclusion {
		if excluded {
			filled.Data[i] = nodata
		}
	}
	return filled
}
