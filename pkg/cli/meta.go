package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/filtr/pkg/effects"
)

// Tooltip renders the help shown before prompting for an effect's arguments.
func Tooltip(s effects.Spec) string {
	var sb strings.Builder
	sb.WriteString(s.Usage)
	if s.Description != "" {
		sb.WriteString("\n  " + s.Description)
	}
	if len(s.Args) == 0 {
		sb.WriteString("\n  no parameters")
		return sb.String()
	}
	for _, a := range s.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "\n  - %s (%s, %s)", a.Name, typeLabel(a), req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
	}
	return sb.String()
}

func typeLabel(a effects.ArgSpec) string {
	if a.Type == effects.ArgEnum && len(a.Options) > 0 {
		return "enum(" + strings.Join(a.Options, "|") + ")"
	}
	return a.Type
}

// NormalizeArgs cleans raw user input for s: values are trimmed, a trailing
// "%" is accepted on float arguments ("30%" reads as 30), and enum values
// take their canonical spelling. The result is checked with s.Parse, so any
// error wraps fxerr.ErrInvalidArgument.
func NormalizeArgs(s effects.Spec, raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	for i, v := range raw {
		v = strings.TrimSpace(v)
		if i < len(s.Args) && s.Args[i].Type == effects.ArgFloat && strings.HasSuffix(v, "%") {
			n := strings.TrimSpace(strings.TrimSuffix(v, "%"))
			if _, err := strconv.ParseFloat(n, 64); err == nil {
				v = n
			}
		}
		out = append(out, v)
	}
	// drop trailing blanks so optional arguments fall back to their defaults
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	args, err := s.Parse(out)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if i < args.Len() && out[i] != "" {
			out[i] = args.String(i)
		}
	}
	return out, nil
}
