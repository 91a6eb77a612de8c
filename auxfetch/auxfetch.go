// Package auxfetch implements the "HTTP fetching of auxiliary-calibration
// archives" collaborator spec.md §6 places out of core scope: resolving,
// downloading and caching ESA AUX_CAL zip archives.
package auxfetch

import (
	"archive/zip"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// CacheDir resolves the directory AUX_CAL archives are cached under,
// preferring $XDG_DATA_HOME/.gosardenoise and falling back to
// $HOME/.gosardenoise, per SPEC_FULL.md §2.
func CacheDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, ".gosardenoise"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gosardenoise"), nil
}

// httpClient is a single explicit-timeout client; no retry/circuit-breaker
// library appears anywhere in the retrieval pack for this concern, so a
// bare *http.Client is the ambient-stack-justified choice here (SPEC_FULL.md
// §6).
var httpClient = &http.Client{Timeout: 2 * time.Minute}

// Download fetches the archive at url into the cache directory, returning
// the local path. If the archive is already cached it is not re-fetched.
func Download(url, archiveName string) (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, archiveName)
	if _, err := os.Stat(dest); err == nil {
		return dest, nil
	}

	resp, err := httpClient.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.New("auxfetch: unexpected status fetching " + url + ": " + resp.Status)
	}

	tmp := dest + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return dest, os.Rename(tmp, dest)
}

// Extract unzips the first member with an .xml extension, at any depth
// of an AUX_CAL archive, into destDir under its base name, returning its
// path. Any further XML members are not extracted.
func Extract(archivePath, destDir string) (string, error) {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	for _, f := range r.File {
		if filepath.Ext(f.Name) != ".xml" {
			continue
		}
		if err := os.MkdirAll(destDir, 0o755); err != nil {
			return "", err
		}
		out := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		w, err := os.Create(out)
		if err != nil {
			rc.Close()
			return "", err
		}
		_, copyErr := io.Copy(w, rc)
		rc.Close()
		w.Close()
		if copyErr != nil {
			return "", copyErr
		}
		return out, nil
	}
	return "", errors.New("auxfetch: no XML member found in " + archivePath)
}
