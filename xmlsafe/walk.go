package xmlsafe

import (
	"io/fs"
	"path/filepath"
)

// walk visits every .SAFE directory (other than root itself) and every
// .zip file under root, without descending into a .SAFE directory's
// innards (a .SAFE directory is itself a leaf for discovery purposes).
// Other directories are traversed but not passed to visit.
func walk(root string, visit func(path string, isDir bool) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if filepath.Ext(path) == ".SAFE" && path != root {
				if verr := visit(path, true); verr != nil {
					return verr
				}
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".zip" {
			return visit(path, false)
		}
		return nil
	})
}
