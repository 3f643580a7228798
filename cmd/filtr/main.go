// Command filtr applies image effects and layer blends from the terminal.
//
// Usage:
//
//	filtr                                   # interactive session
//	filtr photo.png                         # interactive session on photo.png
//	filtr -in photo.png -out out.jpg -fx "brighten 20 | sepia"
//	filtr -in photo.png -out out.png -layer grain.png -mode overlay -fit
//	filtr -list
//
// Settings come from the environment, optionally seeded from an env file:
// FILTR_WORKERS, FILTR_JPEG_QUALITY, FILTR_LOG_LEVEL and PREVIEW_DEBUG.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/Fepozopo/filtr/pkg/cli"
)

var (
	inputFile  = flag.String("in", "", "Input image. Without -out the image is opened interactively")
	outputFile = flag.String("out", "", "Output image; the extension selects the format (png, jpg, gif, bmp, tiff)")
	fx         = flag.String("fx", "", `Effect pipeline, e.g. "brighten 20 | blur gaussian"`)
	layerFile  = flag.String("layer", "", "Image blended on top of the result")
	mode       = flag.String("mode", "multiply", "Blend mode used with -layer")
	fit        = flag.Bool("fit", false, "Resample the -layer image to the input size")
	list       = flag.Bool("list", false, "List effects and blend modes")
	update     = flag.Bool("update", false, "Check for a newer release")
	envFile    = flag.String("env", ".env", "Env file loaded before reading settings")
	version    = flag.Bool("version", false, "Print the version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println(cli.Version)
		return
	}
	if *list {
		cli.PrintEffects(os.Stdout)
		return
	}

	cfg, err := cli.LoadConfig(*envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	cfg.Install(os.Stderr)

	if *update {
		if err := cli.CheckForUpdates(bufio.NewReader(os.Stdin), os.Stdout, cli.Version); err != nil {
			fmt.Fprintf(os.Stderr, "update check error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	in := *inputFile
	if in == "" && flag.NArg() > 0 {
		in = flag.Arg(0)
	}
	if *outputFile == "" {
		if *fx != "" || *layerFile != "" {
			fmt.Fprintf(os.Stderr, "Error: -fx and -layer need -out\n\n")
			flag.Usage()
			os.Exit(2)
		}
		if err := cli.RunREPL(cfg, in); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	err = cli.RunBatch(cfg, cli.BatchOptions{
		Input:   in,
		Output:  *outputFile,
		Effects: *fx,
		Layer:   *layerFile,
		Mode:    *mode,
		Fit:     *fit,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
