package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/Fepozopo/filtr/pkg/effects"
	"github.com/Fepozopo/filtr/pkg/fxerr"
)

func spec(t *testing.T, name string) effects.Spec {
	t.Helper()
	def, ok := effects.Default.Lookup(name)
	if !ok {
		t.Fatalf("effect %s not registered", name)
	}
	return def.Spec
}

func TestNormalizeArgs(t *testing.T) {
	got, err := NormalizeArgs(spec(t, "brighten"), []string{" 30% "})
	if err != nil || len(got) != 1 || got[0] != "30" {
		t.Fatalf("NormalizeArgs(30%%) = %v, %v", got, err)
	}
	got, err = NormalizeArgs(spec(t, "blur"), []string{"Gaussian"})
	if err != nil || got[0] != "gaussian" {
		t.Fatalf("enum not canonicalized: %v, %v", got, err)
	}
	got, err = NormalizeArgs(spec(t, "blur"), []string{""})
	if err != nil || len(got) != 0 {
		t.Fatalf("blank optional argument should fall back to the default: %v, %v", got, err)
	}
	if _, err := NormalizeArgs(spec(t, "posterize"), []string{"2.5"}); !errors.Is(err, fxerr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for a fractional int, got %v", err)
	}
	if _, err := NormalizeArgs(spec(t, "tint"), []string{"1", "2"}); !errors.Is(err, fxerr.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for missing arguments, got %v", err)
	}
}

func TestTooltip(t *testing.T) {
	tip := Tooltip(spec(t, "edge"))
	for _, want := range []string{"edge [simple|sobel]", "detector", "enum(simple|sobel)", "default: simple"} {
		if !strings.Contains(tip, want) {
			t.Fatalf("tooltip %q lacks %q", tip, want)
		}
	}
	if tip := Tooltip(spec(t, "invert")); !strings.Contains(tip, "no parameters") {
		t.Fatalf("tooltip %q", tip)
	}
}

func TestMatchEffect(t *testing.T) {
	specs := effects.Specs()
	cases := map[string]string{"1": specs[0].Name, "SEPIA": "sepia", "post": "posterize"}
	for in, want := range cases {
		got, err := matchEffect(specs, in)
		if err != nil || got != want {
			t.Fatalf("matchEffect(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	for _, in := range []string{"0", "999", "s", "nope"} {
		if _, err := matchEffect(specs, in); err == nil {
			t.Fatalf("matchEffect(%q) should fail", in)
		}
	}
}

func TestParseFzfSelection(t *testing.T) {
	if got, err := parseFzfSelection("sepia: Classic sepia color matrix.\n"); err != nil || got != "sepia" {
		t.Fatalf("got %q, %v", got, err)
	}
	if _, err := parseFzfSelection("\n"); err == nil {
		t.Fatalf("empty selection should fail")
	}
	if !strings.Contains(fzfLines(effects.Specs()), "blur: Convolution blur.\n") {
		t.Fatalf("fzf list lacks blur")
	}
}
