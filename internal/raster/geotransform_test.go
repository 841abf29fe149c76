package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTransformFromBoundsGlobalGrid(t *testing.T) {
	box := BoundingBox{West: -180, East: 180, South: -90, North: 90}
	tr := TransformFromBounds(box, 1800, 3600)

	x, y := tr.Origin()
	require.Equal(t, -180.0, x)
	require.Equal(t, 90.0, y)

	pw, ph := tr.PixelSize()
	require.InDelta(t, 0.1, pw, 1e-12)
	require.InDelta(t, 0.1, ph, 1e-12)
}

func TestTransformCorners(t *testing.T) {
	box := BoundingBox{West: 30, East: 40, South: 20, North: 30}
	rows, cols := 2400, 2400
	tr := TransformFromBounds(box, rows, cols)

	x, y := tr.Apply(0, 0)
	require.InDelta(t, box.West, x, 1e-9)
	require.InDelta(t, box.North, y, 1e-9)

	x, y = tr.Apply(float64(cols), float64(rows))
	require.InDelta(t, box.East, x, 1e-9)
	require.InDelta(t, box.South, y, 1e-9)
}

func TestTransformYStepIsDownward(t *testing.T) {
	tr := TransformFromBounds(BoundingBox{West: 0, East: 10, South: 0, North: 10}, 10, 10)
	require.Less(t, tr[5], 0.0)
	require.True(t, math.Abs(tr[5]) == 1.0)
}

func TestParseBoundsExactKeys(t *testing.T) {
	box, err := ParseBounds(map[string]string{
		TagWestBound:  "-180",
		TagEastBound:  "180",
		TagSouthBound: "-90",
		TagNorthBound: "90",
	})
	require.NoError(t, err)
	require.Equal(t, BoundingBox{West: -180, East: 180, South: -90, North: 90}, box)
}

func TestParseBoundsPrefixedKeys(t *testing.T) {
	// GDAL prefixes HDF-EOS attributes with the group path.
	box, err := ParseBounds(map[string]string{
		"HDFEOS_GRIDS_VNP_Grid_DNB_WestBoundingCoord":  "30",
		"HDFEOS_GRIDS_VNP_Grid_DNB_EastBoundingCoord":  "40",
		"HDFEOS_GRIDS_VNP_Grid_DNB_SouthBoundingCoord": "20",
		"HDFEOS_GRIDS_VNP_Grid_DNB_NorthBoundingCoord": "30",
	})
	require.NoError(t, err)
	require.Equal(t, BoundingBox{West: 30, East: 40, South: 20, North: 30}, box)
}

func TestParseBoundsMissingTag(t *testing.T) {
	_, err := ParseBounds(map[string]string{
		TagWestBound:  "30",
		TagEastBound:  "40",
		TagSouthBound: "20",
	})
	var missing *MissingGeoreferenceTagError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, TagNorthBound, missing.Tag)
}

func TestParseBoundsNonNumericTag(t *testing.T) {
	_, err := ParseBounds(map[string]string{
		TagWestBound:  "west",
		TagEastBound:  "40",
		TagSouthBound: "20",
		TagNorthBound: "30",
	})
	var missing *MissingGeoreferenceTagError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, TagWestBound, missing.Tag)
	require.Equal(t, "west", missing.Value)
}
