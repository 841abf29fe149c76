package raster

import (
	"strconv"
	"strings"
)

// Bounding coordinate tags carried at file level by VNP46A2 granules.
// GDAL may prefix them with the HDF-EOS group path, so lookups match on
// the trailing tag name.
const (
	TagWestBound  = "WestBoundingCoord"
	TagEastBound  = "EastBoundingCoord"
	TagSouthBound = "SouthBoundingCoord"
	TagNorthBound = "NorthBoundingCoord"
)

// BoundingBox holds the four integer-degree bounds of a granule.
type BoundingBox struct {
	West  float64
	East  float64
	South float64
	North float64
}

// Transform is an affine geotransform in GDAL coefficient order:
// {origin X, pixel width, 0, origin Y, 0, -pixel height}. The origin is the
// top-left corner; the Y step is negative because rows advance southward.
type Transform [6]float64

// Apply maps a pixel position (column, row) to geographic coordinates.
func (t Transform) Apply(col, row float64) (x, y float64) {
	x = t[0] + col*t[1] + row*t[2]
	y = t[3] + col*t[4] + row*t[5]
	return x, y
}

// Origin returns the top-left corner.
func (t Transform) Origin() (x, y float64) { return t[0], t[3] }

// PixelSize returns the per-axis cell sizes as magnitudes.
func (t Transform) PixelSize() (w, h float64) {
	h = t[5]
	if h < 0 {
		h = -h
	}
	return t[1], h
}

// TransformFromBounds derives the affine transform for a grid of the given
// dimensions covering the bounding box edge to edge.
func TransformFromBounds(box BoundingBox, rows, cols int) Transform {
	pixelWidth := (box.East - box.West) / float64(cols)
	pixelHeight := (box.North - box.South) / float64(rows)
	return Transform{box.West, pixelWidth, 0, box.North, 0, -pixelHeight}
}

// ParseBounds extracts the bounding box from container tags. Each tag must
// be present and parse as an integer degree value.
func ParseBounds(tags map[string]string) (BoundingBox, error) {
	var box BoundingBox
	for _, t := range []struct {
		tag string
		dst *float64
	}{
		{TagWestBound, &box.West},
		{TagEastBound, &box.East},
		{TagSouthBound, &box.South},
		{TagNorthBound, &box.North},
	} {
		raw, ok := lookupTag(tags, t.tag)
		if !ok {
			return BoundingBox{}, &MissingGeoreferenceTagError{Tag: t.tag}
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return BoundingBox{}, &MissingGeoreferenceTagError{Tag: t.tag, Value: raw}
		}
		*t.dst = float64(v)
	}
	return box, nil
}

// lookupTag finds a tag by exact name or by trailing name segment, covering
// GDAL's group-path-prefixed metadata keys (e.g.
// "HDFEOS_GRIDS_..._WestBoundingCoord").
func lookupTag(tags map[string]string, name string) (string, bool) {
	if v, ok := tags[name]; ok {
		return v, true
	}
	for k, v := range tags {
		if strings.HasSuffix(k, "_"+name) || strings.HasSuffix(k, "."+name) {
			return v, true
		}
	}
	return "", false
}
