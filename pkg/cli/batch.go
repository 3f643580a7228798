package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Fepozopo/filtr/pkg/effects"
	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/layers"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// BatchOptions describes one non-interactive run.
type BatchOptions struct {
	Input  string
	Output string
	// Effects is a pipeline such as "brighten 20 | blur gaussian".
	Effects string
	// Layer, when set, is blended on top of the processed input with Mode.
	Layer string
	Mode  string
	// Fit resamples the layer to the input size before blending.
	Fit bool
}

// RunBatch loads the input, runs the pipeline, optionally blends a layer and
// writes the output. Arguments are validated before any file is read.
func RunBatch(cfg Config, opts BatchOptions) error {
	if opts.Input == "" || opts.Output == "" {
		return fmt.Errorf("%w: batch mode needs both an input and an output path", fxerr.ErrInvalidArgument)
	}
	p, err := effects.ParsePipeline(opts.Effects)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}
	var mode layers.Mode
	if opts.Layer != "" {
		if mode, err = layers.ParseMode(opts.Mode); err != nil {
			return err
		}
	}

	buf, format, err := LoadImage(opts.Input)
	if err != nil {
		return err
	}
	raster.Logger().Info("loaded", "path", opts.Input, "format", format, "size", buf.String())

	if len(p.Steps) > 0 {
		if _, err := p.Run(buf); err != nil {
			return err
		}
	}
	if opts.Layer != "" {
		if err := blendFile(buf, opts.Layer, mode, opts.Fit); err != nil {
			return err
		}
	}
	if err := SaveImage(opts.Output, buf, cfg.JPEGQuality); err != nil {
		return err
	}
	raster.Logger().Info("saved", "path", opts.Output, "size", buf.String())
	return nil
}

// blendFile merges the image at path into buf.
func blendFile(buf *raster.Buffer, path string, mode layers.Mode, fit bool) error {
	top, _, err := LoadImage(path)
	if err != nil {
		return err
	}
	if fit && !top.SameSize(buf) {
		if top, err = FitLayer(top, buf.Width, buf.Height); err != nil {
			return err
		}
	}
	_, err = layers.Merge(mode, buf, top)
	return err
}

// PrintEffects writes the effect catalog and the blend modes to w.
func PrintEffects(w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range effects.Specs() {
		fmt.Fprintf(tw, "%s\t%s\n", s.Usage, s.Description)
	}
	tw.Flush()
	modes := make([]string, len(layers.Modes))
	for i, m := range layers.Modes {
		modes[i] = string(m)
	}
	fmt.Fprintf(w, "\nblend modes: %s\n", strings.Join(modes, ", "))
}
