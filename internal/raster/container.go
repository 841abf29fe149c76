package raster

import (
	"fmt"
	"sort"
	"strings"

	"github.com/airbusgeo/godal"
)

// Container is a multi-sub-raster file exposing named science data sets,
// file-level tags and the dimensions of its first sub-raster. The godal
// implementation is the production one; tests inject fakes.
type Container interface {
	// Band reads the named science data set in full. Returns
	// *InvalidBandNameError for names outside the closed set and
	// *BandNotFoundError when the container lacks the sub-raster.
	Band(name BandName) (*Band, error)
	// Tags returns the file-level metadata of the container.
	Tags() map[string]string
	// RasterSize returns the column and row counts of the first
	// sub-raster, which fixes the resolution of the export grid.
	RasterSize() (cols, rows int, err error)
	Close() error
}

// OpenFunc opens a container; it exists so the orchestrator can be wired
// with a fake in tests.
type OpenFunc func(path string) (Container, error)

type gdalContainer struct {
	path string
	ds   *godal.Dataset
	subs []string // subdataset identifiers, in declared order
}

// Open opens a multi-band container (HDF5, netCDF) through GDAL.
func Open(path string) (Container, error) {
	godal.RegisterAll()
	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open container %s: %w", path, err)
	}
	return &gdalContainer{path: path, ds: ds, subs: subdatasetNames(ds)}, nil
}

// subdatasetNames lists SUBDATASET_n_NAME entries in numeric order.
func subdatasetNames(ds *godal.Dataset) []string {
	md := ds.Metadatas(godal.Domain("SUBDATASETS"))
	keys := make([]string, 0, len(md))
	for k := range md {
		if strings.HasSuffix(k, "_NAME") {
			keys = append(keys, k)
		}
	}
	// Keys are SUBDATASET_1_NAME .. SUBDATASET_n_NAME; pad-free numeric
	// sort keeps SUBDATASET_10 after SUBDATASET_9.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) < len(keys[j])
		}
		return keys[i] < keys[j]
	})
	subs := make([]string, 0, len(keys))
	for _, k := range keys {
		subs = append(subs, md[k])
	}
	return subs
}

// trailingSegment returns the last path component of a subdataset
// identifier, e.g. "Gap_Filled_DNB_BRDF-Corrected_NTL" out of
// `HDF5:"f.h5"://HDFEOS/GRIDS/VNP_Grid_DNB/Data Fields/Gap_Filled_DNB_BRDF-Corrected_NTL`.
func trailingSegment(sub string) string {
	idx := strings.LastIndexAny(sub, "/:")
	if idx < 0 {
		return sub
	}
	return sub[idx+1:]
}

func (c *gdalContainer) Band(name BandName) (*Band, error) {
	if !name.Valid() {
		return nil, &InvalidBandNameError{Name: string(name)}
	}
	for _, sub := range c.subs {
		// Match on the single trailing name segment only; a plain
		// suffix match would confuse DNB_BRDF-Corrected_NTL with its
		// Gap_Filled_ sibling.
		if trailingSegment(sub) != string(name) {
			continue
		}
		return readSubdataset(sub, name)
	}
	return nil, &BandNotFoundError{Name: string(name), Path: c.path}
}

func readSubdataset(sub string, name BandName) (*Band, error) {
	ds, err := godal.Open(sub)
	if err != nil {
		return nil, fmt.Errorf("open subdataset %s: %w", sub, err)
	}
	defer ds.Close()

	st := ds.Structure()
	band := NewBand(string(name), st.SizeX, st.SizeY, pixelTypeOf(ds.Bands()[0].Structure().DataType))
	if err := ds.Bands()[0].Read(0, 0, band.Data, st.SizeX, st.SizeY); err != nil {
		return nil, fmt.Errorf("read band %s: %w", name, err)
	}
	return band, nil
}

func (c *gdalContainer) Tags() map[string]string {
	return c.ds.Metadatas()
}

func (c *gdalContainer) RasterSize() (cols, rows int, err error) {
	if len(c.subs) == 0 {
		st := c.ds.Structure()
		if st.SizeX > 0 && st.SizeY > 0 {
			return st.SizeX, st.SizeY, nil
		}
		return 0, 0, fmt.Errorf("container %s has no sub-rasters", c.path)
	}
	ds, err := godal.Open(c.subs[0])
	if err != nil {
		return 0, 0, fmt.Errorf("open first sub-raster: %w", err)
	}
	defer ds.Close()
	st := ds.Structure()
	return st.SizeX, st.SizeY, nil
}

func (c *gdalContainer) Close() error {
	return c.ds.Close()
}

func pixelTypeOf(dt godal.DataType) PixelType {
	switch dt {
	case godal.Byte:
		return PixelByte
	case godal.UInt16:
		return PixelUInt16
	case godal.Float32:
		return PixelFloat32
	default:
		return PixelFloat64
	}
}

func gdalTypeOf(pt PixelType) godal.DataType {
	switch pt {
	case PixelByte:
		return godal.Byte
	case PixelUInt16:
		return godal.UInt16
	case PixelFloat32:
		return godal.Float32
	default:
		return godal.Float64
	}
}
