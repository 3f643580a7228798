package effects

import (
	"fmt"
	"strings"

	"github.com/Fepozopo/filtr/pkg/fxerr"
	"github.com/Fepozopo/filtr/pkg/raster"
)

// Step is one effect invocation in a Pipeline.
type Step struct {
	Name string
	Args []string
}

func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Name
	}
	return s.Name + " " + strings.Join(s.Args, " ")
}

// Pipeline runs effects strictly in order, each on the result of the
// previous one.
type Pipeline struct {
	// Registry resolves step names; nil means Default.
	Registry *Registry
	Steps    []Step
}

// ParsePipeline reads steps separated by '|', each a name followed by
// whitespace separated arguments: "brighten 30 | blur gaussian | sepia".
func ParsePipeline(s string) (*Pipeline, error) {
	p := &Pipeline{}
	if strings.TrimSpace(s) == "" {
		return p, nil
	}
	for i, part := range strings.Split(s, "|") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			return nil, fmt.Errorf("%w: empty step %d in pipeline %q", fxerr.ErrInvalidArgument, i+1, s)
		}
		p.Steps = append(p.Steps, Step{Name: fields[0], Args: fields[1:]})
	}
	return p, nil
}

// Add appends a step and returns the pipeline for chaining.
func (p *Pipeline) Add(name string, args ...string) *Pipeline {
	p.Steps = append(p.Steps, Step{Name: name, Args: args})
	return p
}

func (p *Pipeline) registry() *Registry {
	if p.Registry != nil {
		return p.Registry
	}
	return Default
}

// Validate checks that every step names a registered effect with valid
// arguments.
func (p *Pipeline) Validate() error {
	reg := p.registry()
	for i, s := range p.Steps {
		def, ok := reg.Lookup(s.Name)
		if !ok {
			return fmt.Errorf("step %d: %w: unknown effect %q", i+1, fxerr.ErrInvalidArgument, s.Name)
		}
		if _, err := def.Spec.Parse(s.Args); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

// Run applies every step to buf. The steps run on a private copy that is
// adopted only after the last step succeeds, so on error buf is unchanged.
func (p *Pipeline) Run(buf *raster.Buffer) (*raster.Buffer, error) {
	if buf == nil {
		return nil, fmt.Errorf("%w: nil buffer", fxerr.ErrInvalidArgument)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	reg := p.registry()
	work := buf.Clone()
	for i, s := range p.Steps {
		if _, err := reg.Run(s.Name, work, s.Args...); err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	buf.Adopt(work)
	return buf, nil
}

func (p *Pipeline) String() string {
	parts := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		parts[i] = s.String()
	}
	return strings.Join(parts, " | ")
}
