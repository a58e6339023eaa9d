// Package analysis computes centroid and intensity-dispersion statistics of a
// light spot in a grayscale image.
package analysis

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"math"
	"os"

	"github.com/disintegration/imaging"
)

// ErrZeroMass is returned when the image has no intensity mass (all-black),
// which leaves the centroid undefined.
var ErrZeroMass = errors.New("zero intensity mass: centroid undefined")

// Analyzer holds the decoded, single-channel pixel data for one image.
// Pixels are loaded once and read-only afterward.
type Analyzer struct {
	path   string
	pixels []uint8 // row-major intensity samples, len = width*height
	width  int
	height int
}

// Statistics is the derived record for one processed image.
type Statistics struct {
	Width       int
	Height      int
	CentroidX   int
	CentroidY   int
	StdDev      float64
	Variance    float64
	ProjectionX []int64 // column sums, len = width
	ProjectionY []int64 // row sums, len = height
}

// Load decodes the image at path and reduces it to 8-bit intensity samples.
// Multi-channel sources go through the standard luma-weighted conversion;
// already-gray sources pass through unchanged.
func Load(path string) (*Analyzer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("image at path %s not found: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	pixels, w, h := grayPixels(img)
	return &Analyzer{path: path, pixels: pixels, width: w, height: h}, nil
}

// Path returns the source image path.
func (a *Analyzer) Path() string { return a.path }

// grayPixels flattens an image into a row-major intensity buffer.
func grayPixels(img image.Image) ([]uint8, int, int) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	pixels := make([]uint8, w*h)

	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			copy(pixels[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
		}
		return pixels, w, h
	}

	// Luma-weighted conversion; the NRGBA result has r=g=b so any channel
	// carries the intensity.
	flat := imaging.Grayscale(img)
	for y := 0; y < h; y++ {
		row := flat.Pix[y*flat.Stride:]
		for x := 0; x < w; x++ {
			pixels[y*w+x] = row[x*4]
		}
	}
	return pixels, w, h
}

// Process computes the statistics record and writes the two projection text
// files (projection_x.txt, projection_y.txt) into projectionDir. The
// projection files are written on every run.
//
// An all-black image returns ErrZeroMass before any centroid division.
func (a *Analyzer) Process(projectionDir string) (*Statistics, error) {
	stats, err := a.compute()
	if err != nil {
		return nil, err
	}

	if err := stats.SaveProjections(projectionDir); err != nil {
		return nil, err
	}
	return stats, nil
}

func (a *Analyzer) compute() (*Statistics, error) {
	w, h := a.width, a.height

	// Raw moments up to first order. m00 is the total intensity mass.
	var m00, m10, m01 int64
	projX := make([]int64, w)
	projY := make([]int64, h)

	for y := 0; y < h; y++ {
		row := a.pixels[y*w : (y+1)*w]
		for x, v := range row {
			iv := int64(v)
			m00 += iv
			m10 += int64(x) * iv
			m01 += int64(y) * iv
			projX[x] += iv
			projY[y] += iv
		}
	}

	if m00 == 0 {
		return nil, ErrZeroMass
	}

	// Population statistics over all intensity samples.
	n := float64(w * h)
	mean := float64(m00) / n
	var sumSq float64
	for _, v := range a.pixels {
		d := float64(v) - mean
		sumSq += d * d
	}
	variance := sumSq / n

	return &Statistics{
		Width:       w,
		Height:      h,
		CentroidX:   int(m10 / m00),
		CentroidY:   int(m01 / m00),
		StdDev:      math.Sqrt(variance),
		Variance:    variance,
		ProjectionX: projX,
		ProjectionY: projY,
	}, nil
}
