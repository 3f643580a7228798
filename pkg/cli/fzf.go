package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Fepozopo/filtr/pkg/effects"
)

// SelectEffectWithFzf lists the effects in fzf and returns the chosen name.
func SelectEffectWithFzf(specs []effects.Spec) (string, error) {
	if _, err := exec.LookPath("fzf"); err != nil {
		return "", fmt.Errorf("fzf not found: %w", err)
	}
	cmd := exec.Command("fzf", "--prompt=effect> ")
	cmd.Stdin = strings.NewReader(fzfLines(specs))
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}
	return parseFzfSelection(out.String())
}

func fzfLines(specs []effects.Spec) string {
	var b strings.Builder
	for _, s := range specs {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Description)
	}
	return b.String()
}

func parseFzfSelection(s string) (string, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("no effect selected")
	}
	return name, nil
}

// SelectEffectFallback prints a numbered list and reads a number, a name or
// an unambiguous name prefix. An empty answer returns "" and no error.
func SelectEffectFallback(in *bufio.Reader, out io.Writer, specs []effects.Spec) (string, error) {
	fmt.Fprintln(out, "Effect selection:")
	for i, s := range specs {
		fmt.Fprintf(out, "  %d) %s - %s\n", i+1, s.Name, s.Description)
	}
	sel, err := PromptLine(in, out, "Enter number or effect name (leave empty to cancel): ")
	if err != nil || sel == "" {
		return "", err
	}
	return matchEffect(specs, sel)
}

func matchEffect(specs []effects.Spec, sel string) (string, error) {
	if idx, err := strconv.Atoi(sel); err == nil {
		if idx < 1 || idx > len(specs) {
			return "", fmt.Errorf("invalid selection %d", idx)
		}
		return specs[idx-1].Name, nil
	}
	lower := strings.ToLower(sel)
	var matches []string
	for _, s := range specs {
		n := strings.ToLower(s.Name)
		if n == lower {
			return s.Name, nil
		}
		if strings.HasPrefix(n, lower) {
			matches = append(matches, s.Name)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown effect: %s", sel)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("ambiguous selection %q: %s", sel, strings.Join(matches, ", "))
}

// SelectFileWithFzf picks an image file under startDir with find piped into fzf.
func SelectFileWithFzf(startDir string) (string, error) {
	cmdStr := fmt.Sprintf(
		"find %s -type f \\( -iname '*.jpg' -o -iname '*.jpeg' -o -iname '*.png' -o -iname '*.gif' -o -iname '*.bmp' -o -iname '*.tif' -o -iname '*.tiff' -o -iname '*.webp' \\) | fzf --height 100%% --border --prompt='Files> '",
		strconv.Quote(startDir),
	)
	cmd := exec.Command("bash", "-lc", cmdStr)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf for files: %w", err)
	}
	sel := strings.TrimSpace(out.String())
	if sel == "" {
		return "", fmt.Errorf("no file selected")
	}
	return sel, nil
}
