package filter

import (
	"math"

	"github.com/gogpu/rasterlayer/internal/cache"
)

// GaussianKernel generates a normalized 1D Gaussian kernel using radius as
// sigma. The kernel has 2*ceil(3*radius)+1 taps. For radius <= 0 it returns
// the identity kernel [1].
func GaussianKernel(radius float64) []float32 {
	if radius <= 0 {
		return []float32{1}
	}

	half := int(math.Ceil(radius * 3))
	kernel := make([]float32, half*2+1)

	twoSigmaSq := 2 * radius * radius
	sum := 0.0
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

// BoxKernel generates a 1D uniform kernel of 2*radius+1 taps.
func BoxKernel(radius int) []float32 {
	if radius <= 0 {
		return []float32{1}
	}
	kernel := make([]float32, radius*2+1)
	v := 1 / float32(len(kernel))
	for i := range kernel {
		kernel[i] = v
	}
	return kernel
}

// Kernels are keyed by radius quantized to 0.01.
var gaussianKernels = cache.New[int, []float32](64)

// CachedGaussianKernel returns a shared Gaussian kernel for radius.
// Callers must not modify the returned slice.
func CachedGaussianKernel(radius float64) []float32 {
	key := int(math.Round(radius * 100))
	return gaussianKernels.GetOrCreate(key, func() []float32 {
		return GaussianKernel(float64(key) / 100)
	})
}
