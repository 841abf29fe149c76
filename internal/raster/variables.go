package raster

import (
	"fmt"
	"math"

	"github.com/airbusgeo/godal"
)

// VariableReader reads one named variable out of a multi-variable
// container, returning its band, native geotransform and no-data sentinel.
// ReadVariable is the production implementation.
type VariableReader func(path, name string) (*Band, Transform, float64, error)

// ReadVariable reads the named variable (matched on the trailing name
// segment of the subdataset identifier) from a netCDF-style container. For
// containers without subdatasets the dataset itself is read. The returned
// no-data value is NaN when the source declares none.
func ReadVariable(path, name string) (*Band, Transform, float64, error) {
	godal.RegisterAll()
	ds, err := godal.Open(path)
	if err != nil {
		return nil, Transform{}, 0, fmt.Errorf("open container %s: %w", path, err)
	}
	defer ds.Close()

	subs := subdatasetNames(ds)
	if len(subs) == 0 {
		return readVariableDataset(ds, name)
	}
	for _, sub := range subs {
		if trailingSegment(sub) != name {
			continue
		}
		sds, err := godal.Open(sub)
		if err != nil {
			return nil, Transform{}, 0, fmt.Errorf("open variable %s: %w", name, err)
		}
		defer sds.Close()
		return readVariableDataset(sds, name)
	}
	return nil, Transform{}, 0, &BandNotFoundError{Name: name, Path: path}
}

func readVariableDataset(ds *godal.Dataset, name string) (*Band, Transform, float64, error) {
	st := ds.Structure()
	if st.NBands == 0 {
		return nil, Transform{}, 0, fmt.Errorf("variable %s has no bands", name)
	}
	src := ds.Bands()[0]
	band := NewBand(name, st.SizeX, st.SizeY, pixelTypeOf(src.Structure().DataType))
	if err := src.Read(0, 0, band.Data, st.SizeX, st.SizeY); err != nil {
		return nil, Transform{}, 0, fmt.Errorf("read variable %s: %w", name, err)
	}

	gt, err := ds.GeoTransform()
	if err != nil {
		return nil, Transform{}, 0, fmt.Errorf("variable %s has no geotransform: %w", name, err)
	}

	nodata := math.NaN()
	if v, ok := src.NoData(); ok {
		nodata = v
	}
	return band, Transform(gt), nodata, nil
}
