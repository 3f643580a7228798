package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/Fepozopo/filtr/pkg/raster"
)

// Terminal preview for the kitty graphics protocol and the iTerm2 inline
// image protocol (OSC 1337), with chafa as a character-cell fallback.
// PREVIEW_BACKEND (kitty, inline, chafa) forces a backend.

// previewDebug is set from Config.PreviewDebug.
var previewDebug bool

func debugf(format string, args ...any) {
	if previewDebug {
		fmt.Fprintf(os.Stderr, "filtr-preview: "+format+"\n", args...)
	}
}

func isKitty() bool {
	if os.Getenv("KITTY_WINDOW_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	// ghostty speaks the kitty protocol
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghostty")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "Tabby":
		debugf("TERM_PROGRAM indicates inline-capable: %s", os.Getenv("TERM_PROGRAM"))
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "wezterm")
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

// PreviewSupported reports whether PreviewBuffer has a backend to use.
func PreviewSupported() bool {
	ok := isKitty() || isInlineImageCapable() || hasChafa()
	debugf("PreviewSupported -> %v (kitty=%v inline=%v chafa=%v)", ok, isKitty(), isInlineImageCapable(), hasChafa())
	return ok
}

// PreviewSize is a placement in terminal cells plus its approximate pixel size.
type PreviewSize struct {
	Cols, Rows              int
	PixelWidth, PixelHeight int
}

// computePreviewSize fits w x h into at most 80x40 cells of 8x16 pixels,
// preserving the aspect ratio and never scaling up.
func computePreviewSize(w, h int) PreviewSize {
	const (
		charW, charH     = 8, 16
		minCols, minRows = 6, 3
		maxCols, maxRows = 80, 40
	)
	scale := 1.0
	if w > 0 && h > 0 {
		scale = math.Min(1, math.Min(float64(maxCols*charW)/float64(w), float64(maxRows*charH)/float64(h)))
	}
	cols := int(math.Round(float64(w) * scale / charW))
	rows := int(math.Round(float64(h) * scale / charH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)
	return PreviewSize{Cols: cols, Rows: rows, PixelWidth: cols * charW, PixelHeight: rows * charH}
}

// postImageNewlines is the padding printed after an image so the prompt
// lands below it.
func postImageNewlines(rows int) int {
	switch {
	case rows <= 2:
		return 1
	case rows <= 6:
		return 2
	case rows <= 20:
		return 3
	}
	return 4
}

// PreviewBuffer encodes buf as PNG and draws it on w.
func PreviewBuffer(w io.Writer, buf *raster.Buffer) error {
	if buf == nil {
		return fmt.Errorf("nil buffer")
	}
	var blob bytes.Buffer
	if err := png.Encode(&blob, buf.Image()); err != nil {
		return fmt.Errorf("png encode failed: %w", err)
	}
	size := computePreviewSize(buf.Width, buf.Height)

	if v := strings.ToLower(os.Getenv("PREVIEW_BACKEND")); v != "" {
		debugf("PREVIEW_BACKEND override: %s", v)
		var err error
		switch v {
		case "kitty":
			err = sendKittyImage(w, blob.Bytes(), size)
		case "inline", "iterm", "wezterm":
			err = sendInlineImage(w, blob.Bytes(), size)
		case "chafa":
			err = sendChafaImage(w, blob.Bytes(), size)
		default:
			err = fmt.Errorf("unknown PREVIEW_BACKEND %q", v)
		}
		if err == nil {
			return nil
		}
		debugf("override failed: %v", err)
	}

	switch {
	case isInlineImageCapable():
		return sendInlineImage(w, blob.Bytes(), size)
	case isKitty():
		return sendKittyImage(w, blob.Bytes(), size)
	case hasChafa():
		return sendChafaImage(w, blob.Bytes(), size)
	}
	return fmt.Errorf("no preview protocol matched")
}

// sendKittyImage transmits PNG bytes with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. The first chunk carries the
// placement; q=2 suppresses terminal responses.
func sendKittyImage(w io.Writer, data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := "0"
		if end < len(enc) {
			more = "1"
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%s;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = "\x1b_Gm=" + more + ";" + enc[pos:end] + "\x1b\\"
		}
		if _, err := io.WriteString(w, seq); err != nil {
			return err
		}
	}
	debugf("kitty: sent %d bytes as %dx%d cells", len(data), size.Cols, size.Rows)
	_, err := io.WriteString(w, strings.Repeat("\n", postImageNewlines(size.Rows)))
	return err
}

// sendInlineImage emits the iTerm2 OSC 1337 inline file sequence.
func sendInlineImage(w io.Writer, data []byte, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=preview.png;inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	n, err := io.WriteString(w, seq)
	debugf("inline: wrote %d bytes (err=%v)", n, err)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, strings.Repeat("\n", postImageNewlines(0)))
	return err
}

// sendChafaImage pipes the PNG through the external chafa renderer.
func sendChafaImage(w io.Writer, data []byte, size PreviewSize) error {
	if !hasChafa() {
		return fmt.Errorf("chafa not available")
	}
	cmd := exec.Command("chafa", "--fill=block", "--symbols=block", "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-")
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = w
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("chafa failed: %w", err)
	}
	_, err := io.WriteString(w, strings.Repeat("\n", postImageNewlines(size.Rows)))
	return err
}
