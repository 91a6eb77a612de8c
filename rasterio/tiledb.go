package rasterio

import (
	"errors"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// ErrCreateSigma0Tdb and ErrWriteSigma0Tdb mirror the teacher's
// per-operation sentinel errors in errors.go (ErrCreateSvpTdb,
// ErrWriteSvpTdb), joined with the underlying TileDB error via
// errors.Join so callers can match on the sentinel while still seeing the
// cause.
var (
	ErrCreateSigma0Tdb = errors.New("error creating sigma0 tiledb array")
	ErrWriteSigma0Tdb  = errors.New("error writing sigma0 tiledb array")
)

// zstdFilter builds a single zstandard compression filter at level,
// matching the teacher's ZstdFilter helper in svp.go/tiledb.go.
func zstdFilter(ctx *tiledb.Context, level int32) (*tiledb.Filter, error) {
	f, err := tiledb.NewFilter(ctx, tiledb.TILEDB_FILTER_ZSTD)
	if err != nil {
		return nil, err
	}
	if err := f.SetOption(tiledb.TILEDB_COMPRESSION_LEVEL, level); err != nil {
		f.Free()
		return nil, err
	}
	return f, nil
}

// sigma0Schema builds a 2D dense array schema of rows x cols float32
// cells, tiled one tile per swath-bound block the same way svp.go tiles
// one tile per acquisition's row count — here the whole block is one tile,
// since each block is already written in a single pass by one worker.
func sigma0Schema(ctx *tiledb.Context, rows, cols uint64) (*tiledb.ArraySchema, error) {
	domain, err := tiledb.NewDomain(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer domain.Free()

	rowDim, err := tiledb.NewDimension(ctx, "line", tiledb.TILEDB_UINT64, []uint64{0, rows - 1}, rows)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer rowDim.Free()

	colDim, err := tiledb.NewDimension(ctx, "sample", tiledb.TILEDB_UINT64, []uint64{0, cols - 1}, cols)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer colDim.Free()

	if err := domain.AddDimensions(rowDim, colDim); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}

	schema, err := tiledb.NewArraySchema(ctx, tiledb.TILEDB_DENSE)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	if err := schema.SetDomain(domain); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	if err := schema.SetCellOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	if err := schema.SetTileOrder(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}

	attr, err := tiledb.NewAttribute(ctx, "sigma0", tiledb.TILEDB_FLOAT32)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer attr.Free()

	filters, err := tiledb.NewFilterList(ctx)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer filters.Free()

	zf, err := zstdFilter(ctx, 9)
	if err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer zf.Free()
	if err := filters.AddFilter(zf); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	if err := attr.SetFilterList(filters); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}
	if err := schema.AddAttributes(attr); err != nil {
		return nil, errors.Join(ErrCreateSigma0Tdb, err)
	}

	return schema, nil
}

// WriteSigma0TileDB writes one swath-bound block of a sigma0/NESZ output
// raster to a dense TileDB array at uri, per SPEC_FULL.md §4.9. Each block
// is written as its own array so that "stream per-swath blocks" (spec.md
// §5's resource guidance) maps onto one dense-array write per block
// instead of one giant in-memory write.
func WriteSigma0TileDB(uri string, values [][]float32) error {
	ctx, err := tiledb.NewContext(nil)
	if err != nil {
		return errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer ctx.Free()

	rows := uint64(len(values))
	if rows == 0 {
		return errors.Join(ErrCreateSigma0Tdb, errors.New("empty block"))
	}
	cols := uint64(len(values[0]))

	schema, err := sigma0Schema(ctx, rows, cols)
	if err != nil {
		return err
	}
	defer schema.Free()

	array, err := tiledb.NewArray(ctx, uri)
	if err != nil {
		return errors.Join(ErrCreateSigma0Tdb, err)
	}
	defer array.Free()

	if err := array.Create(schema); err != nil {
		return errors.Join(ErrCreateSigma0Tdb, err)
	}

	if err := array.Open(tiledb.TILEDB_WRITE); err != nil {
		return errors.Join(ErrWriteSigma0Tdb, err)
	}
	defer array.Close()

	flat := make([]float32, 0, rows*cols)
	for _, row := range values {
		flat = append(flat, row...)
	}

	query, err := tiledb.NewQuery(ctx, array)
	if err != nil {
		return errors.Join(ErrWriteSigma0Tdb, err)
	}
	defer query.Free()

	if err := query.SetLayout(tiledb.TILEDB_ROW_MAJOR); err != nil {
		return errors.Join(ErrWriteSigma0Tdb, err)
	}
	if _, err := query.SetDataBuffer("sigma0", flat); err != nil {
		return errors.Join(ErrWriteSigma0Tdb, err)
	}
	if err := query.Submit(); err != nil {
		return errors.Join(ErrWriteSigma0Tdb, err)
	}
	return query.Finalize()
}
