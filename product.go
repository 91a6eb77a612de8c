// Package gosardenoise implements Sentinel-1 GRD thermal-noise removal and
// texture-noise attenuation. The core package is deliberately ignorant of
// how a product is stored: it consumes small provider interfaces and lets
// satellite packages (xmlsafe, rasterio, auxfetch, coeffs) supply concrete
// adapters, the way the teacher kept binary decoding, geo math and TileDB
// export as separate concerns wired together only in cmd/main.go.
package gosardenoise

import (
	"log"
	"regexp"
	"time"
)

// Polarization identifies a Sentinel-1 transmit/receive channel.
type Polarization string

const (
	PolarizationHH Polarization = "HH"
	PolarizationHV Polarization = "HV"
	PolarizationVH Polarization = "VH"
	PolarizationVV Polarization = "VV"
)

// AcquisitionMode identifies the antenna beam mode of a product.
type AcquisitionMode string

const (
	ModeIW AcquisitionMode = "IW"
	ModeEW AcquisitionMode = "EW"
	ModeSM AcquisitionMode = "SM"
)

// Swath describes one imaged subswath (IW1-3 or EW1-5) and its bounds
// within the full-resolution detected-ground-range raster.
type Swath struct {
	Name          string
	FirstSample   int
	LastSample    int
	FirstLine     int
	LastLine      int
	NumberOfSamples int
	NumberOfLines   int
}

// nameRe matches the standard Sentinel-1 GRD product identifier, e.g.
// S1A_IW_GRDH_1SDV_20200101T000000_20200101T000020_030000_037000_ABCD.
var nameRe = regexp.MustCompile(`^(S1[ABCD])_(IW|EW|S[1-6])_(GRD[HMF])_(1S[DS][HV])_(\d{8}T\d{6})_(\d{8}T\d{6})_(\d{6})_([0-9A-F]{6})_([0-9A-F]{4})$`)

// ProductID carries the fields parsed from a standard product identifier.
type ProductID struct {
	Mission       string // S1A, S1B, S1C, S1D
	Mode          string // IW, EW, S1-S6
	ProductType   string // GRDH, GRDM, GRDF
	ResolutionClass string // 1SDV, 1SDH, 1SSV, 1SSH
	StartTime     time.Time
	StopTime      time.Time
	AbsoluteOrbit string
	DataTakeID    string
	UniqueID      string
}

const productTimeLayout = "20060102T150405"

// ParseProductID parses a standard Sentinel-1 GRD product identifier
// (directory or archive basename, without extension). It returns an
// UnsupportedProduct error for any mode/type this pipeline does not
// implement, per spec.md §6.
func ParseProductID(name string) (ProductID, error) {
	m := nameRe.FindStringSubmatch(name)
	if m == nil {
		return ProductID{}, wrap(UnsupportedProduct, "product identifier does not match the expected Sentinel-1 pattern: "+name, nil)
	}
	start, err := time.Parse(productTimeLayout, m[5])
	if err != nil {
		return ProductID{}, wrap(MalformedMetadata, "unparsable start time in product identifier", err)
	}
	stop, err := time.Parse(productTimeLayout, m[6])
	if err != nil {
		return ProductID{}, wrap(MalformedMetadata, "unparsable stop time in product identifier", err)
	}
	id := ProductID{
		Mission:         m[1],
		Mode:            m[2],
		ProductType:     m[3],
		ResolutionClass: m[4],
		StartTime:       start,
		StopTime:        stop,
		AbsoluteOrbit:   m[7],
		DataTakeID:      m[8],
		UniqueID:        m[9],
	}
	if id.ProductType[:3] != "GRD" {
		return ProductID{}, wrap(UnsupportedProduct, "only GRD products are supported, got "+id.ProductType, nil)
	}
	if id.Mode != string(ModeIW) && id.Mode != string(ModeEW) {
		return ProductID{}, wrap(UnsupportedProduct, "only IW and EW modes are supported, got "+id.Mode, nil)
	}
	return id, nil
}

// Product is the in-memory representation of a single Sentinel-1 GRD
// product opened for denoising: its identity, the provider adapters that
// back its metadata, and the warnings and logger threaded through every
// stage.
type Product struct {
	ID ProductID

	Annotation AnnotationSource
	Calibration CalibrationSource
	Noise       NoiseSource
	Manifest    ManifestSource
	AuxCal      AuxCalSource
	DN          DNSource
	Coefficients CoefficientSource

	Polarization Polarization
	IPFVersion  float64

	Warnings []Warning
	Logger   *log.Logger
}

// NewProduct constructs a Product from its identity and provider adapters.
// Logger defaults to log.Default() when nil, mirroring the teacher's
// pattern of threading an optional collaborator with a safe default rather
// than relying on a package-level global.
func NewProduct(id ProductID, logger *log.Logger) *Product {
	if logger == nil {
		logger = log.Default()
	}
	return &Product{ID: id, Logger: logger}
}

// warn appends a non-fatal diagnostic and logs it, the pattern every
// metadata accessor and pipeline stage uses for MissingCoefficients and
// similar recoverable conditions (spec.md §7).
func (p *Product) warn(kind Kind, msg string) {
	p.Warnings = append(p.Warnings, Warning{Kind: kind, Message: msg})
	p.Logger.Printf("warning: %s: %s", kind, msg)
}
