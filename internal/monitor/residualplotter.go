// Package monitor records alignment run diagnostics and renders them as
// plots after a run: a histogram of final residuals and the inlier count of
// the best hypothesis over the consensus iterations.
package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ResidualPlotter accumulates per-iteration best inlier counts and final
// residual distances for one alignment run.
type ResidualPlotter struct {
	mu        sync.Mutex
	enabled   bool
	outputDir string
	label     string

	inlierProgress []progressSample
	residuals      []float64
	threshold      float64
}

type progressSample struct {
	Iteration   int
	InlierCount int
}

// NewResidualPlotter creates a plotter for a run with the given label, used
// in plot titles and file names.
func NewResidualPlotter(label string) *ResidualPlotter {
	return &ResidualPlotter{label: label}
}

// Start enables recording and sets the directory plots are written to.
func (rp *ResidualPlotter) Start(outputDir string) error {
	rp.mu.Lock()
	defer rp.mu.Unlock()

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	rp.outputDir = outputDir
	rp.enabled = true
	rp.inlierProgress = nil
	rp.residuals = nil
	return nil
}

// RecordProgress records the best inlier count after a consensus iteration.
func (rp *ResidualPlotter) RecordProgress(iteration, inlierCount int) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if !rp.enabled {
		return
	}
	rp.inlierProgress = append(rp.inlierProgress, progressSample{iteration, inlierCount})
}

// RecordResiduals records the final per-correspondence residual distances
// and the threshold that separated inliers from outliers.
func (rp *ResidualPlotter) RecordResiduals(residuals []float64, threshold float64) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if !rp.enabled {
		return
	}
	rp.residuals = append(rp.residuals[:0], residuals...)
	rp.threshold = threshold
}

// SavePlots renders the recorded data into PNG files under the output
// directory and returns their paths.
func (rp *ResidualPlotter) SavePlots() ([]string, error) {
	rp.mu.Lock()
	defer rp.mu.Unlock()
	if !rp.enabled {
		return nil, fmt.Errorf("plotter not started")
	}

	var written []string

	if len(rp.residuals) > 0 {
		path := filepath.Join(rp.outputDir, rp.label+"_residuals.png")
		if err := rp.saveResidualHistogram(path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if len(rp.inlierProgress) > 0 {
		path := filepath.Join(rp.outputDir, rp.label+"_inlier_progress.png")
		if err := rp.saveInlierProgress(path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func (rp *ResidualPlotter) saveResidualHistogram(path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: residual distances (threshold %.4g)", rp.label, rp.threshold)
	p.X.Label.Text = "residual distance"
	p.Y.Label.Text = "correspondences"

	hist, err := plotter.NewHist(plotter.Values(rp.residuals), 32)
	if err != nil {
		return fmt.Errorf("build residual histogram: %w", err)
	}
	p.Add(hist)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save residual histogram: %w", err)
	}
	return nil
}

func (rp *ResidualPlotter) saveInlierProgress(path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: best inlier count per iteration", rp.label)
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "inliers"

	points := make(plotter.XYs, len(rp.inlierProgress))
	for i, sample := range rp.inlierProgress {
		points[i].X = float64(sample.Iteration)
		points[i].Y = float64(sample.InlierCount)
	}
	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("build inlier progress line: %w", err)
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save inlier progress: %w", err)
	}
	return nil
}
