package gosardenoise

import "errors"

// Kind classifies the structured errors the pipeline can return, per the
// error taxonomy the denoising stages are expected to surface.
type Kind int

const (
	// MalformedMetadata covers annotation/calibration/noise/manifest XML
	// that fails to parse or is missing a required field.
	MalformedMetadata Kind = iota
	// UnsupportedProduct covers a product type/mode the pipeline does not
	// implement (e.g. anything other than GRD).
	UnsupportedProduct
	// UnsupportedIPF covers an IPF version for which no noise-removal
	// algorithm variant is defined.
	UnsupportedIPF
	// MissingAux covers a failure to resolve or download an AUX_CAL
	// archive for the product's validity window.
	MissingAux
	// MissingCoefficients covers an absent denoising-coefficients entry.
	// This Kind is non-fatal: callers fall back to ns=1, pb=0 and record a
	// Warning instead of returning an Error of this Kind.
	MissingCoefficients
	// NumericDegenerate covers a numeric routine failing to produce a
	// usable result, e.g. a flat noise-LUT vector with no shift optimum.
	NumericDegenerate
)

func (k Kind) String() string {
	switch k {
	case MalformedMetadata:
		return "malformed metadata"
	case UnsupportedProduct:
		return "unsupported product"
	case UnsupportedIPF:
		return "unsupported IPF version"
	case MissingAux:
		return "missing auxiliary calibration data"
	case MissingCoefficients:
		return "missing denoising coefficients"
	case NumericDegenerate:
		return "numeric routine degenerate"
	default:
		return "unknown error"
	}
}

var (
	ErrMalformedMetadata  = errors.New("malformed metadata")
	ErrUnsupportedProduct = errors.New("unsupported product")
	ErrUnsupportedIPF     = errors.New("unsupported IPF version")
	ErrMissingAux         = errors.New("missing auxiliary calibration data")
	ErrMissingCoefficients = errors.New("missing denoising coefficients")
	ErrNumericDegenerate  = errors.New("numeric routine degenerate")
)

func sentinelFor(k Kind) error {
	switch k {
	case MalformedMetadata:
		return ErrMalformedMetadata
	case UnsupportedProduct:
		return ErrUnsupportedProduct
	case UnsupportedIPF:
		return ErrUnsupportedIPF
	case MissingAux:
		return ErrMissingAux
	case MissingCoefficients:
		return ErrMissingCoefficients
	case NumericDegenerate:
		return ErrNumericDegenerate
	default:
		return errors.New("unknown error")
	}
}

// Error is a structured pipeline error carrying the failing Kind, a
// human-readable message and, where available, the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// wrap builds an Error of the given Kind, joining the Kind's sentinel with
// cause so errors.Is(err, ErrMalformedMetadata) still matches, following
// the teacher's errors.Join(ErrCreateSvpTdb, err) convention.
func wrap(kind Kind, msg string, cause error) error {
	joined := sentinelFor(kind)
	if cause != nil {
		joined = errors.Join(sentinelFor(kind), cause)
	}
	return &Error{Kind: kind, Message: msg, Cause: joined}
}

// Warning is a non-fatal diagnostic recorded on Product.Warnings rather
// than returned as an error, e.g. a missing coefficient entry that was
// defaulted.
type Warning struct {
	Kind    Kind
	Message string
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}
