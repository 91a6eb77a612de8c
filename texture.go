package gosardenoise

import "math"

// RemoveTextureNoise attenuates the residual multiplicative texture noise
// left over after thermal-noise subtraction, per spec.md §4.6.2: a local
// mean filter of the given window size blends toward the filtered value
// wherever the local mean drops below Sigma0Min, weighted by
// TextureWeight, rather than applying a flat weight everywhere (which
// original_source avoids, since it would oversmooth genuinely bright
// returns).
func (p *Product) RemoveTextureNoise(sigma0 map[string]*Raster, opts DenoiseOptions) (map[string]*Raster, []Warning, error) {
	out := make(map[string]*Raster, len(sigma0))
	for name, r := range sigma0 {
		out[name] = attenuateTexture(r, opts.TextureWindow, opts.TextureWeight, opts.Sigma0Min)
	}
	return out, p.Warnings, nil
}

func attenuateTexture(r *Raster, window int, weight, floor float64) *Raster {
	if window < 1 {
		window = 1
	}
	half := window / 2
	rows := len(r.Values)
	if rows == 0 {
		return r
	}
	cols := len(r.Values[0])

	out := &Raster{FirstLine: r.FirstLine, FirstSample: r.FirstSample, Values: make([][]float32, rows)}
	for i := range out.Values {
		out.Values[i] = make([]float32, cols)
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := r.Values[i][j]
			if math.IsNaN(float64(v)) {
				out.Values[i][j] = v
				continue
			}
			localMean := windowMean(r, i, j, half)
			if math.IsNaN(localMean) || localMean >= floor {
				out.Values[i][j] = v
				continue
			}
			out.Values[i][j] = float32(weight*localMean + (1-weight)*float64(v))
		}
	}
	return out
}

func windowMean(r *Raster, i, j, half int) float64 {
	rows := len(r.Values)
	cols := len(r.Values[0])
	sum := 0.0
	count := 0
	for di := -half; di <= half; di++ {
		ri := i + di
		if ri < 0 || ri >= rows {
			continue
		}
		for dj := -half; dj <= half; dj++ {
			cj := j + dj
			if cj < 0 || cj >= cols {
				continue
			}
			v := float64(r.Values[ri][cj])
			if math.IsNaN(v) {
				continue
			}
			sum += v
			count++
		}
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}
