// Package cli hosts the filtr engine in a terminal: an interactive session,
// a batch runner, image file codecs and terminal previews.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Fepozopo/filtr/pkg/effects"
	"github.com/Fepozopo/filtr/pkg/layers"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// Version is the running build, set with -ldflags "-X github.com/Fepozopo/filtr/pkg/cli.Version=...".
var Version = "dev"

func usage(w io.Writer) {
	fmt.Fprintln(w, "Commands available:")
	fmt.Fprintln(w, "  /  - select and apply an effect")
	fmt.Fprintln(w, "  |  - apply a pipeline, e.g. brighten 20 | sepia")
	fmt.Fprintln(w, "  b  - blend another image on top")
	fmt.Fprintln(w, "  o  - open another image")
	fmt.Fprintln(w, "  s  - save current image")
	fmt.Fprintln(w, "  u  - check for updates")
	fmt.Fprintln(w, "  h  - show this help message")
	fmt.Fprintln(w, "  q  - quit")
}

// Session is one interactive editing session over a single buffer.
type Session struct {
	cfg Config
	in  *bufio.Reader
	out io.Writer

	// Preview draws the buffer after every change.
	Preview bool
	// UseFzf picks effects and files with fzf when it is installed.
	UseFzf bool

	buf    *raster.Buffer
	path   string
	format string
}

// NewSession returns a session reading commands from in.
func NewSession(cfg Config, in io.Reader, out io.Writer) *Session {
	return &Session{cfg: cfg, in: bufio.NewReader(in), out: out}
}

// RunREPL runs an interactive session on the terminal, opening path first
// when it is not empty.
func RunREPL(cfg Config, path string) error {
	s := NewSession(cfg, os.Stdin, os.Stdout)
	s.Preview = PreviewSupported()
	s.UseFzf = true
	if path != "" {
		if err := s.Open(path); err != nil {
			return err
		}
	}
	return s.Run()
}

// Buffer returns the current image, or nil.
func (s *Session) Buffer() *raster.Buffer { return s.buf }

// Open loads path as the current image.
func (s *Session) Open(path string) error {
	buf, format, err := LoadImage(path)
	if err != nil {
		return fmt.Errorf("failed to read image %s: %w", path, err)
	}
	s.buf, s.path, s.format = buf, path, format
	fmt.Fprintf(s.out, "Opened %s\n", path)
	s.show()
	return nil
}

func (s *Session) show() {
	if s.buf == nil {
		return
	}
	if s.Preview {
		if err := PreviewBuffer(s.out, s.buf); err != nil {
			debugf("preview: %v", err)
		}
	}
	fmt.Fprintln(s.out, GetImageInfo(s.buf, s.format))
}

func (s *Session) prompt(p string) (string, error) {
	return PromptLine(s.in, s.out, p)
}

// Run reads commands until q or end of input.
func (s *Session) Run() error {
	fmt.Fprintln(s.out, "filtr image editor")
	usage(s.out)
	for {
		line, err := s.prompt("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
		if line == "" {
			continue
		}
		cmd, rest := line[0], strings.TrimSpace(line[1:])
		// letter commands take their argument after a space: "s out.png"
		if cmd != '/' && cmd != '|' && len(line) > 1 && line[1] != ' ' && line[1] != '\t' {
			fmt.Fprintf(s.out, "unknown command %q, press h for help\n", line)
			continue
		}
		switch cmd {
		case '/':
			s.report(s.applyEffect(rest))
		case '|':
			s.report(s.applyPipeline(rest))
		case 'b':
			s.report(s.blend())
		case 'o':
			s.report(s.open(rest))
		case 's':
			s.report(s.save(rest))
		case 'u':
			s.report(CheckForUpdates(s.in, s.out, Version))
		case 'h':
			usage(s.out)
		case 'q':
			fmt.Fprintln(s.out, "Exiting...")
			return nil
		default:
			fmt.Fprintf(s.out, "unknown command %q, press h for help\n", cmd)
		}
	}
}

func (s *Session) report(err error) {
	if err != nil {
		fmt.Fprintf(s.out, "error: %v\n", err)
	}
}

var errNoImage = errors.New("no image loaded, press o to open one")

// applyEffect runs one effect. line may already hold "name args..."; otherwise
// the effect is picked interactively and its arguments prompted one by one.
func (s *Session) applyEffect(line string) error {
	if s.buf == nil {
		return errNoImage
	}
	specs := effects.Specs()
	var name string
	var raw []string
	if fields := strings.Fields(line); len(fields) > 0 {
		name, raw = fields[0], fields[1:]
	} else {
		var err error
		name, err = s.selectEffect(specs)
		if err != nil || name == "" {
			return err
		}
	}
	def, ok := effects.Default.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown effect: %s", name)
	}
	if len(raw) == 0 && len(def.Spec.Args) > 0 {
		fmt.Fprintln(s.out, "\n"+Tooltip(def.Spec)+"\n")
		for _, a := range def.Spec.Args {
			v, err := s.prompt(fmt.Sprintf("%s (%s): ", a.Name, typeLabel(a)))
			if err != nil {
				return err
			}
			raw = append(raw, v)
		}
	}
	args, err := NormalizeArgs(def.Spec, raw)
	if err != nil {
		return err
	}
	if _, err := effects.Run(name, s.buf, args...); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Applied %s\n", name)
	s.show()
	return nil
}

func (s *Session) selectEffect(specs []effects.Spec) (string, error) {
	if s.UseFzf {
		if name, err := SelectEffectWithFzf(specs); err == nil {
			return name, nil
		}
	}
	return SelectEffectFallback(s.in, s.out, specs)
}

func (s *Session) applyPipeline(line string) error {
	if s.buf == nil {
		return errNoImage
	}
	if line == "" {
		var err error
		if line, err = s.prompt("pipeline: "); err != nil || line == "" {
			return err
		}
	}
	p, err := effects.ParsePipeline(line)
	if err != nil {
		return err
	}
	if _, err := p.Run(s.buf); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Applied %s\n", p)
	s.show()
	return nil
}

func (s *Session) blend() error {
	if s.buf == nil {
		return errNoImage
	}
	path, err := s.pickFile("Layer image path: ")
	if err != nil || path == "" {
		return err
	}
	m, err := s.prompt(fmt.Sprintf("mode (%s): ", modeList()))
	if err != nil {
		return err
	}
	mode, err := layers.ParseMode(m)
	if err != nil {
		return err
	}
	fit, err := s.prompt("fit layer to image? (y/N): ")
	if err != nil {
		return err
	}
	if err := blendFile(s.buf, path, mode, strings.EqualFold(fit, "y")); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Blended %s with %s\n", path, mode)
	s.show()
	return nil
}

func modeList() string {
	names := make([]string, len(layers.Modes))
	for i, m := range layers.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, "|")
}

// pickFile asks for a path; "/" opens fzf when enabled.
func (s *Session) pickFile(p string) (string, error) {
	path, err := s.prompt(p)
	if err != nil {
		return "", err
	}
	if path == "/" && s.UseFzf {
		return SelectFileWithFzf(".")
	}
	return path, nil
}

func (s *Session) open(path string) error {
	if path == "" {
		var err error
		if path, err = s.pickFile("Path to image (leave empty to cancel): "); err != nil || path == "" {
			return err
		}
	}
	return s.Open(path)
}

func (s *Session) save(path string) error {
	if s.buf == nil {
		return errNoImage
	}
	if path == "" {
		var err error
		if path, err = s.prompt("Enter output filename: "); err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(s.out, "no filename provided")
			return nil
		}
	}
	if err := SaveImage(path, s.buf, s.cfg.JPEGQuality); err != nil {
		return fmt.Errorf("failed to write image: %w", err)
	}
	fmt.Fprintf(s.out, "Saved to %s\n", path)
	return nil
}
