// Package preprocess sequences the per-granule VNP46A2 pipeline: band
// extraction, QA decoding, mask application, georeferencing and export.
package preprocess

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/skyglowlab/skyglow/internal/mask"
	"github.com/skyglowlab/skyglow/internal/metrics"
	"github.com/skyglowlab/skyglow/internal/naming"
	"github.com/skyglowlab/skyglow/internal/qa"
	"github.com/skyglowlab/skyglow/internal/raster"
)

// State is a position in the per-file pipeline. Exported and Failed are
// terminal.
type State string

const (
	StateStart          State = "start"
	StateBandsExtracted State = "bands_extracted"
	StateScaled         State = "scaled"
	StateMasked         State = "masked"
	StateTransformBuilt State = "transform_built"
	StateMetadataBuilt  State = "metadata_built"
	StateExported       State = "exported"
	StateFailed         State = "failed"
)

// EPSG4326 is the only reference system supported for VNP46A2 exports.
const EPSG4326 = 4326

// Result is the terminal record for one input file. Err is non-nil exactly
// when State is StateFailed; the batch driver inspects it rather than
// parsing logs.
type Result struct {
	Input      string
	Output     string
	State      State
	Err        error
	Duration   time.Duration
	StageTimes map[State]time.Duration
}

// Failed reports whether the file ended in the failed state.
func (r Result) Failed() bool { return r.State == StateFailed }

// Orchestrator runs the per-file pipeline. Open and Writer default to the
// GDAL-backed implementations; tests inject fakes.
type Orchestrator struct {
	OutputDir string
	Open      raster.OpenFunc
	Writer    raster.Writer
	Recorder  metrics.Recorder
}

// New returns an orchestrator wired to GDAL with metrics disabled.
func New(outputDir string) *Orchestrator {
	return &Orchestrator{
		OutputDir: outputDir,
		Open:      raster.Open,
		Writer:    raster.GeoTIFFWriter{},
		Recorder:  metrics.NoopRecorder{},
	}
}

// Process runs the full pipeline for one granule. All failures end in a
// Failed result with the originating error preserved; nothing is exported
// from a failed state and no error escapes this boundary.
func (o *Orchestrator) Process(ctx context.Context, inputPath string) Result {
	start := time.Now()
	res := Result{
		Input:      inputPath,
		State:      StateStart,
		StageTimes: make(map[State]time.Duration),
	}
	log := slog.With("file", filepath.Base(inputPath))
	log.Info("Started preprocessing")

	fail := func(err error) Result {
		res.State = StateFailed
		res.Err = err
		res.Duration = time.Since(start)
		o.Recorder.ObserveFileDuration(res.Duration)
		o.Recorder.IncFileOutcome(metrics.OutcomeFailed)
		log.Error("Preprocessing failed", "error", err)
		return res
	}
	advance := func(s State, began time.Time) {
		res.State = s
		res.StageTimes[s] = time.Since(began)
		o.Recorder.ObserveStageDuration(string(s), time.Since(began))
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	container, err := o.Open(inputPath)
	if err != nil {
		return fail(err)
	}
	defer container.Close()

	// Extract radiance plus the two QA bands.
	began := time.Now()
	radiance, err := container.Band(raster.BandDNBBRDFCorrectedNTL)
	if err != nil {
		return fail(err)
	}
	quality, err := container.Band(raster.BandMandatoryQualityFlag)
	if err != nil {
		return fail(err)
	}
	cloudMask, err := container.Band(raster.BandQFCloudMask)
	if err != nil {
		return fail(err)
	}
	advance(StateBandsExtracted, began)

	// Decode the two QF_Cloud_Mask bit-fields.
	cloudConfidence, err := qa.Decode(cloudMask, qa.CloudConfidenceStartBit, qa.CloudConfidenceEndBit)
	if err != nil {
		return fail(err)
	}
	landWater, err := qa.Decode(cloudMask, qa.LandWaterStartBit, qa.LandWaterEndBit)
	if err != nil {
		return fail(err)
	}

	began = time.Now()
	scaled := mask.Scale(radiance)
	advance(StateScaled, began)

	began = time.Now()
	outcome, err := mask.NewPipeline(scaled, quality, cloudConfidence, landWater).Run(scaled)
	if err != nil {
		return fail(err)
	}
	filled := mask.Fill(scaled, outcome.Exclusion, mask.NoData)
	advance(StateMasked, began)
	log.Debug("Masking complete",
		"excluded", outcome.ExcludedAfter[len(outcome.ExcludedAfter)-1],
		"cells", filled.Len())

	// The transform derives from file tags plus the dimensions of the
	// first sub-raster, which fixes the export resolution.
	began = time.Now()
	bounds, err := raster.ParseBounds(container.Tags())
	if err != nil {
		return fail(err)
	}
	cols, rows, err := container.RasterSize()
	if err != nil {
		return fail(err)
	}
	transform := raster.TransformFromBounds(bounds, rows, cols)
	advance(StateTransformBuilt, began)

	began = time.Now()
	meta, err := raster.NewExportMetadata(filled, transform, EPSG4326, mask.NoData)
	if err != nil {
		return fail(err)
	}
	advance(StateMetadataBuilt, began)

	began = time.Now()
	outputPath := filepath.Join(o.OutputDir, naming.OutputName(inputPath))
	if err := o.Writer.Write(outputPath, filled, meta); err != nil {
		return fail(err)
	}
	advance(StateExported, began)

	res.Output = outputPath
	res.Duration = time.Since(start)
	o.Recorder.ObserveFileDuration(res.Duration)
	o.Recorder.IncFileOutcome(metrics.OutcomeExported)
	log.Info("Completed preprocessing", "output", filepath.Base(outputPath), "duration", res.Duration)
	return res
}
