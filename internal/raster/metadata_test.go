package raster

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewExportMetadata(t *testing.T) {
	band := NewBand("radiance", 2400, 2400, PixelFloat64)
	tr := TransformFromBounds(BoundingBox{West: 30, East: 40, South: 20, North: 30}, 2400, 2400)

	meta, err := NewExportMetadata(band, tr, 4326, math.NaN())
	require.NoError(t, err)
	require.Equal(t, 1, meta.Count)
	require.Equal(t, PixelFloat64, meta.PixelType)
	require.Equal(t, 2400, meta.Width)
	require.Equal(t, 2400, meta.Height)
	require.Equal(t, 4326, meta.EPSG)
	require.True(t, math.IsNaN(meta.NoData))
	require.Equal(t, tr, meta.Transform)
}

func TestNewExportMetadataRejectsEmptyShape(t *testing.T) {
	band := &Band{Name: "empty", Width: 0, Height: 2400}
	_, err := NewExportMetadata(band, Transform{}, 4326, 0)
	require.Error(t, err)
}
