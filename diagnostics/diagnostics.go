// Package diagnostics renders the two inspection plots of an enhancement run:
// the normalized waveform over time and the input magnitude spectrum in dB
// over a logarithmic frequency axis.
package diagnostics

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/signal"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
)

const (
	// TimePlotFile is the file name of the waveform plot.
	TimePlotFile = "NormalizedAmplitude_vs_Time.svg"
	// SpectrumPlotFile is the file name of the magnitude spectrum plot.
	SpectrumPlotFile = "Amplitude(dB)_vs_Log(Frequency).svg"
)

// ErrNoData reports a plot with no drawable points.
var ErrNoData = errors.New("diagnostics: nothing to plot")

var (
	plotWidth  = 12 * vg.Inch
	plotHeight = 4.5 * vg.Inch
	lineColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
)

// TimePlot plots every normalized sample against its time in seconds.
func TimePlot(n signal.Normalized) (*plot.Plot, error) {
	if n.FrameCount() == 0 {
		return nil, fmt.Errorf("%w: signal has no frames", ErrNoData)
	}

	times := n.Times()
	pts := make(plotter.XYs, len(times))
	for i, t := range times {
		pts[i].X = t
		pts[i].Y = n.Samples[i]
	}

	p := plot.New()
	p.Title.Text = "Normalized amplitude vs time"
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Normalized amplitude"
	p.Y.Min, p.Y.Max = -1, 1

	if err := addLine(p, pts); err != nil {
		return nil, err
	}
	return p, nil
}

// SpectrumPlot plots 20*log10(magnitude[k]) against the frequency of bin k
// on a log axis. Bins [1, N/2) are drawn: bin 0 has no place on a log axis
// and the upper half mirrors the lower one. Bins with a non-finite level,
// such as exact zeros, are skipped.
func SpectrumPlot(magnitude []float64, sampleRate int) (*plot.Plot, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("diagnostics: sample rate must be > 0: %d", sampleRate)
	}

	n := len(magnitude)
	pts := make(plotter.XYs, 0, n/2)
	for k := 1; k < n/2; k++ {
		db := core.LinearToDB(magnitude[k])
		if !core.IsFinite(db) {
			continue
		}
		pts = append(pts, plotter.XY{X: spectrum.BinFrequency(k, sampleRate, n), Y: db})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("%w: no finite spectrum bins among %d", ErrNoData, n)
	}

	p := plot.New()
	p.Title.Text = "Amplitude (dB) vs log frequency"
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Amplitude (dB)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}

	if err := addLine(p, pts); err != nil {
		return nil, err
	}
	return p, nil
}

// Render writes both plots into dir, concurrently, and returns the paths
// written, time plot first.
//
// A plot with nothing to draw is skipped: its path is left out and the
// returned error wraps [ErrNoData] while the other plot is still written.
// Any other failure returns no paths.
func Render(ctx context.Context, dir string, n signal.Normalized, magnitude []float64) ([]string, error) {
	paths := []string{
		filepath.Join(dir, TimePlotFile),
		filepath.Join(dir, SpectrumPlotFile),
	}
	build := []func() (*plot.Plot, error){
		func() (*plot.Plot, error) { return TimePlot(n) },
		func() (*plot.Plot, error) { return SpectrumPlot(magnitude, n.SampleRate) },
	}
	skipped := make([]error, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	for i := range paths {
		g.Go(func() error {
			p, err := build[i]()
			if errors.Is(err, ErrNoData) {
				skipped[i] = err
				return nil
			}
			if err != nil {
				return err
			}
			return save(ctx, p, paths[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(paths))
	for i, p := range paths {
		if skipped[i] == nil {
			written = append(written, p)
		}
	}
	return written, errors.Join(skipped...)
}

func addLine(p *plot.Plot, pts plotter.XYs) error {
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("diagnostics: %w", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(0.75)
	p.Add(plotter.NewGrid(), line)
	return nil
}

func save(ctx context.Context, p *plot.Plot, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("diagnostics: save %q: %w", path, err)
	}
	return nil
}
