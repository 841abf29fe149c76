// Package naming derives deterministic output filenames and dates from
// satellite product filenames. Output names are a pure function of the
// input name, which keeps concurrent batch writers collision-free.
package naming

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	// Acquisition date segment of VIIRS granule names: ".A2016153." in
	// inputs, "-a2016153-" after output normalization.
	julianSegment = regexp.MustCompile(`[.\-][Aa](\d{7})[.\-]`)

	// OMI/Aura OMNO2d names carry "_2016m0601" style dates.
	no2Date = regexp.MustCompile(`_(\d{4})m(\d{2})(\d{2})`)

	// AIRS names carry "AIRS.2016.06.01." style dates.
	coDate = regexp.MustCompile(`AIRS\.(\d{4})\.(\d{2})\.(\d{2})\.`)
)

// OutputName converts an input granule filename into its export name:
// extension stripped, lower-cased, dots normalized to dashes, ".tif"
// appended. E.g. "VNP46A2.A2016153.h30v05.001.2020267141459.h5" becomes
// "vnp46a2-a2016153-h30v05-001-2020267141459.tif".
func OutputName(inputPath string) string {
	base := filepath.Base(inputPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.ReplaceAll(strings.ToLower(stem), ".", "-")
	return stem + ".tif"
}

// JulianToGregorian converts a YYYYJJJ date to YYYY-MM-DD.
func JulianToGregorian(date string) (string, error) {
	t, err := time.Parse("2006002", date)
	if err != nil {
		return "", fmt.Errorf("parse julian date %q: %w", date, err)
	}
	return t.Format("2006-01-02"), nil
}

// GranuleDate extracts the YYYYJJJ acquisition date from a VIIRS granule
// or preprocessed-output filename.
func GranuleDate(path string) (string, error) {
	m := julianSegment.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("no acquisition date in %q", filepath.Base(path))
	}
	return m[1], nil
}

// NO2Date extracts the YYYY-MM-DD date from an OMNO2d filename.
func NO2Date(path string) (string, error) {
	m := no2Date.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("no date in OMNO2d filename %q", filepath.Base(path))
	}
	return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]), nil
}

// CODate extracts the YYYY-MM-DD date from an AIRS filename.
func CODate(path string) (string, error) {
	m := coDate.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return "", fmt.Errorf("no date in AIRS filename %q", filepath.Base(path))
	}
	return fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3]), nil
}
