package rasterize

import (
	"math"
	"sync"
)

// gaussianKernel returns a normalized 1D Gaussian kernel with standard
// deviation sigma. The kernel spans 3 sigma on each side. For sigma <= 0 it
// returns the identity kernel [1].
func gaussianKernel(sigma float64) []float32 {
	if sigma <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(sigma * 3))
	kernel := make([]float32, 2*half+1)

	twoSigmaSq := 2 * sigma * sigma
	var sum float64
	for i := range kernel {
		x := float64(i - half)
		v := math.Exp(-(x * x) / twoSigmaSq)
		kernel[i] = float32(v)
		sum += v
	}

	inv := float32(1 / sum)
	for i := range kernel {
		kernel[i] *= inv
	}
	return kernel
}

// kernelCache memoizes kernels by sigma quantized to 0.01. Every piece of a
// puzzle is blurred with the same sigma, so the cache stays tiny; it is
// still bounded in case callers vary the oversampling factor.
type kernelCache struct {
	mu     sync.RWMutex
	cache  map[int][]float32
	maxLen int
}

var kernels = &kernelCache{cache: make(map[int][]float32), maxLen: 16}

func (c *kernelCache) get(sigma float64) []float32 {
	key := int(sigma * 100)

	c.mu.RLock()
	k, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return k
	}

	k = gaussianKernel(sigma)

	c.mu.Lock()
	if len(c.cache) >= c.maxLen {
		clear(c.cache)
	}
	c.cache[key] = k
	c.mu.Unlock()

	return k
}

// blur applies a separable Gaussian blur to a single-channel buffer of
// width*height values. Samples outside the buffer read as outside, so a
// shape touching the canvas border still gets a soft edge there.
func blur(src []float32, width, height int, sigma float64, outside float32) []float32 {
	kernel := kernels.get(sigma)
	half := len(kernel) / 2

	tmp := make([]float32, len(src))
	for y := range height {
		row := src[y*width : (y+1)*width]
		for x := range width {
			var sum float32
			for k, w := range kernel {
				kx := x + k - half
				if kx < 0 || kx >= width {
					sum += outside * w
					continue
				}
				sum += row[kx] * w
			}
			tmp[y*width+x] = sum
		}
	}

	dst := make([]float32, len(src))
	for y := range height {
		for x := range width {
			var sum float32
			for k, w := range kernel {
				ky := y + k - half
				if ky < 0 || ky >= height {
					sum += outside * w
					continue
				}
				sum += tmp[ky*width+x] * w
			}
			dst[y*width+x] = sum
		}
	}
	return dst
}
