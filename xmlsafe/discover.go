// Package xmlsafe implements the out-of-core-scope collaborators
// spec.md §6 declares: reading SAFE directories and zipped SAFE products
// via encoding/xml and archive/zip. It supplies the concrete adapters
// behind the gosardenoise.AnnotationSource/CalibrationSource/NoiseSource/
// ManifestSource interfaces.
package xmlsafe

import (
	"path/filepath"
	"regexp"
)

// productNameRe mirrors gosardenoise.ParseProductID's pattern, duplicated
// here (rather than imported) so discovery stays a pure filesystem walk
// with no dependency on the core package's parsing internals.
var productNameRe = regexp.MustCompile(`^S1[ABCD]_(IW|EW|S[1-6])_GRD[HMF]_1S[DS][HV]_\d{8}T\d{6}_\d{8}T\d{6}_\d{6}_[0-9A-F]{6}_[0-9A-F]{4}(\.SAFE|\.zip)?$`)

// FindProducts walks root recursively (via filepath.WalkDir, the stdlib
// analogue of the teacher's TileDB-VFS trawl in search/search.go, since
// discovery here is always against a local or NFS-mounted archive rather
// than an object store) collecting .SAFE directories and .zip paths whose
// basename matches a Sentinel-1 GRD product identifier, supplementing the
// single-product-at-a-time scope of the distilled spec per SPEC_FULL.md
// §4.8.
func FindProducts(root string) ([]string, error) {
	var found []string
	err := walk(root, func(path string, isDir bool) error {
		base := filepath.Base(path)
		if productNameRe.MatchString(base) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
