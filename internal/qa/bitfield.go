// Package qa decodes packed quality-assurance bit-fields from VNP46A2 flag
// rasters and names the documented flag values.
package qa

import (
	"fmt"

	"github.com/skyglowlab/skyglow/internal/raster"
)

// QF_Cloud_Mask bit ranges, 0-based from the least-significant bit, both
// ends inclusive (per the VNP46A2 user guide QA table).
const (
	LandWaterStartBit = 1
	LandWaterEndBit   = 3

	CloudConfidenceStartBit = 6
	CloudConfidenceEndBit   = 7
)

// Decoded cloud-detection confidence values (bits 6-7).
const (
	CloudConfidentClear  = 0
	CloudProbablyClear   = 1
	CloudProbablyCloudy  = 2
	CloudConfidentCloudy = 3
)

// Decoded land/water background values (bits 1-3).
const (
	LandWaterSeaWater = 3
)

// Mandatory_Quality_Flag codes.
const (
	QualityPoor        = 2
	QualityNoRetrieval = 255
)

// BitMask returns a mask with ones exactly in bits start..end.
func BitMask(start, end uint) uint32 {
	return ((1 << (end - start + 1)) - 1) << start
}

// Decode extracts the inclusive bit range [start, end] from every cell of a
// packed flag band, yielding a band of the field's own value domain
// (0..2^(end-start+1)-1). Pure and shape-preserving; no file I/O.
func Decode(packed *raster.Band, start, end uint) (*raster.Band, error) {
	if start > end || end > 31 {
		return nil, fmt.Errorf("invalid bit range [%d, %d]", start, end)
	}
	mask := BitMask(start, end)
	out := raster.NewBand(
		fmt.Sprintf("%s_bits_%d_%d", packed.Name, start, end),
		packed.Width, packed.Height, packed.PixelType,
	)
	for i, v := range packed.Data {
		out.Data[i] = float64((uint32(v) & mask) >> start)
	}
	return out, nil
}
