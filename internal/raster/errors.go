package raster

import "fmt"

// InvalidBandNameError reports a requested band outside the closed science
// data set enumeration. This is a caller bug, not an input-file condition.
type InvalidBandNameError struct {
	Name string
}

func (e *InvalidBandNameError) Error() string {
	return fmt.Sprintf("invalid band name %q: must be one of %v", e.Name, BandNames())
}

// BandNotFoundError reports a container that lacks the requested science
// data set. Fatal for the file being processed.
type BandNotFoundError struct {
	Name string
	Path string
}

func (e *BandNotFoundError) Error() string {
	return fmt.Sprintf("band %q not found in %s", e.Name, e.Path)
}

// MissingGeoreferenceTagError reports an absent or non-numeric bounding
// coordinate tag on the container.
type MissingGeoreferenceTagError struct {
	Tag   string
	Value string
}

func (e *MissingGeoreferenceTagError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("georeference tag %s missing from container", e.Tag)
	}
	return fmt.Sprintf("georeference tag %s is not numeric: %q", e.Tag, e.Value)
}

// ExportError reports a failed raster write, preserving the underlying cause.
type ExportError struct {
	Path string
	Err  error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s: %v", e.Path, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
