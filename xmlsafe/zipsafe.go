package xmlsafe

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"strings"
)

// ZipSafe reads annotation/calibration/noise/manifest members directly out
// of a zipped SAFE product, the "ZIP/SAFE container reader" collaborator
// spec.md §6 places out of core scope. A .SAFE directory on disk needs no
// such adapter (its members are read with plain os.ReadFile, as LoadXxx
// above already do); ZipSafe exists for the distributed .zip case.
type ZipSafe struct {
	reader *zip.ReadCloser
}

// OpenZipSafe opens a zipped SAFE product for reading.
func OpenZipSafe(path string) (*ZipSafe, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	return &ZipSafe{reader: r}, nil
}

// Close releases the underlying zip reader.
func (z *ZipSafe) Close() error {
	return z.reader.Close()
}

// ReadMember reads the full contents of the first archive member whose
// path ends with suffix (e.g. "annotation/s1a-iw1-grd-vv.xml").
func (z *ZipSafe) ReadMember(suffix string) ([]byte, error) {
	for _, f := range z.reader.File {
		if strings.HasSuffix(f.Name, suffix) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, os.ErrNotExist
}

// Members lists every archive member whose basename matches pattern
// (path.Match semantics), e.g. "*.xml" under an "annotation" directory.
func (z *ZipSafe) Members(pattern string) []string {
	var out []string
	for _, f := range z.reader.File {
		if ok, _ := path.Match(pattern, path.Base(f.Name)); ok {
			out = append(out, f.Name)
		}
	}
	return out
}
