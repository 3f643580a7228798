package effects

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Fepozopo/filtr/pkg/fxerr"
)

// Argument types understood by Spec.Parse.
const (
	ArgFloat = "float"
	ArgInt   = "int"
	ArgEnum  = "enum"
)

// ArgSpec describes one positional argument of an effect.
type ArgSpec struct {
	Name        string
	Type        string // ArgFloat, ArgInt or ArgEnum
	Required    bool
	Default     string // used when the argument is omitted or empty
	Description string
	Options     []string // valid values when Type == ArgEnum
}

// Spec is the user-facing description of an effect and the schema its
// arguments are checked against.
type Spec struct {
	Name        string
	Args        []ArgSpec
	Usage       string
	Description string
	// Variadic accepts arguments beyond Args unchecked; they are available
	// through Args.Raw.
	Variadic bool
}

// Args holds validated arguments with defaults filled in.
type Args struct {
	vals []string
	raw  []string
}

// Parse validates args against the declared arguments and fills in defaults.
func (s Spec) Parse(args []string) (Args, error) {
	if len(args) > len(s.Args) && !s.Variadic {
		return Args{}, fmt.Errorf("%w: %s takes at most %d args, got %d (usage: %s)", fxerr.ErrInvalidArgument, s.Name, len(s.Args), len(args), s.usage())
	}
	vals := make([]string, len(s.Args))
	for i, a := range s.Args {
		v := ""
		if i < len(args) {
			v = strings.TrimSpace(args[i])
		}
		if v == "" {
			if a.Required {
				return Args{}, fmt.Errorf("%w: %s requires %s (usage: %s)", fxerr.ErrInvalidArgument, s.Name, a.Name, s.usage())
			}
			v = a.Default
		}
		nv, err := a.normalize(s.Name, v)
		if err != nil {
			return Args{}, err
		}
		vals[i] = nv
	}
	return Args{vals: vals, raw: append([]string(nil), args...)}, nil
}

func (s Spec) usage() string {
	if s.Usage != "" {
		return s.Usage
	}
	return s.Name
}

// normalize validates v and returns it in canonical form (enum values take
// the spelling of the matching option).
func (a ArgSpec) normalize(effect, v string) (string, error) {
	if v == "" {
		return "", nil
	}
	switch a.Type {
	case ArgFloat:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: %s: invalid %s %q", fxerr.ErrInvalidArgument, effect, a.Name, v)
		}
	case ArgInt:
		if _, err := strconv.Atoi(v); err != nil {
			return "", fmt.Errorf("%w: %s: invalid %s %q", fxerr.ErrInvalidArgument, effect, a.Name, v)
		}
	case ArgEnum:
		for _, o := range a.Options {
			if strings.EqualFold(o, v) {
				return o, nil
			}
		}
		return "", fmt.Errorf("%w: %s: %s must be one of %s, got %q", fxerr.ErrInvalidArgument, effect, a.Name, strings.Join(a.Options, "|"), v)
	}
	return v, nil
}

// Float returns argument i as a float64. Missing optional arguments without a
// default read as 0.
func (a Args) Float(i int) float64 {
	f, _ := strconv.ParseFloat(a.String(i), 64)
	return f
}

// Int returns argument i as an int.
func (a Args) Int(i int) int {
	n, _ := strconv.Atoi(a.String(i))
	return n
}

// String returns argument i; enum values use the option's spelling.
func (a Args) String(i int) string {
	if i < 0 || i >= len(a.vals) {
		return ""
	}
	return a.vals[i]
}

// Raw returns the arguments as passed, including any variadic tail.
func (a Args) Raw() []string {
	return a.raw
}

// Len is the number of declared arguments.
func (a Args) Len() int { return len(a.vals) }
