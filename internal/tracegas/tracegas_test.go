package tracegas

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skyglowlab/skyglow/internal/raster"
)

type recordedWrite struct {
	path string
	band *raster.Band
	meta raster.ExportMetadata
}

type captureWriter struct {
	writes []recordedWrite
}

func (w *captureWriter) Write(path string, band *raster.Band, meta raster.ExportMetadata) error {
	w.writes = append(w.writes, recordedWrite{path, band, meta})
	return nil
}

func fakeReader(t *testing.T, served map[string]*raster.Band) raster.VariableReader {
	t.Helper()
	tr := raster.TransformFromBounds(raster.BoundingBox{West: -180, East: 180, South: -90, North: 90}, 720, 1440)
	return func(path, name string) (*raster.Band, raster.Transform, float64, error) {
		b, ok := served[name]
		if !ok {
			return nil, raster.Transform{}, 0, &raster.BandNotFoundError{Name: name, Path: path}
		}
		return b, tr, math.NaN(), nil
	}
}

func TestConvertNO2WritesEveryVariable(t *testing.T) {
	served := make(map[string]*raster.Band)
	for _, v := range NO2Variables() {
		served[v.Name] = raster.NewBand(v.Name, 1440, 720, raster.PixelFloat32)
	}
	w := &captureWriter{}
	c := &Converter{Read: fakeReader(t, served), Writer: w}
	outRoot := t.TempDir()

	err := c.ConvertNO2("OMI-Aura_L3-OMNO2d_2016m0601_v003-2016m0602t034557.he5.nc4", outRoot)
	require.NoError(t, err)
	require.Len(t, w.writes, 5)

	wantPaths := map[string]bool{}
	for _, v := range NO2Variables() {
		wantPaths[filepath.Join(outRoot, v.Folder, "2016-06-01.tif")] = true
	}
	for _, wr := range w.writes {
		require.True(t, wantPaths[wr.path], "unexpected output %s", wr.path)
		require.Equal(t, 1, wr.meta.Count)
		require.Equal(t, EPSG4326, wr.meta.EPSG)
	}
}

func TestConvertNO2MissingVariable(t *testing.T) {
	served := map[string]*raster.Band{
		"ColumnAmountNO2": raster.NewBand("ColumnAmountNO2", 4, 4, raster.PixelFloat32),
	}
	c := &Converter{Read: fakeReader(t, served), Writer: &captureWriter{}}
	err := c.ConvertNO2("OMI-Aura_L3-OMNO2d_2016m0601_v003.he5.nc4", t.TempDir())
	var notFound *raster.BandNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConvertNO2BadFilename(t *testing.T) {
	c := &Converter{Read: fakeReader(t, nil), Writer: &captureWriter{}}
	require.Error(t, c.ConvertNO2("random.nc4", t.TempDir()))
}

func TestConvertCO(t *testing.T) {
	served := map[string]*raster.Band{
		"TotCO_A": raster.NewBand("TotCO_A", 360, 180, raster.PixelFloat32),
	}
	w := &captureWriter{}
	c := &Converter{Read: fakeReader(t, served), Writer: w}
	outDir := t.TempDir()

	err := c.ConvertCO("AIRS.2016.06.01.L3.RetStd_IR001.v7.0.3.0.G20207111837.hdf.nc4", outDir, "TotCO_A")
	require.NoError(t, err)
	require.Len(t, w.writes, 1)
	require.Equal(t, filepath.Join(outDir, "2016-06-01.tif"), w.writes[0].path)
}
