package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os/exec"
)

// RSVG rasterizes by piping the document through librsvg's rsvg-convert.
// Install with: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
type RSVG struct {
	// Command overrides the binary name. Empty means "rsvg-convert".
	Command string
}

func (r RSVG) Rasterize(ctx context.Context, doc []byte, scale float64) (image.Image, error) {
	bin := r.Command
	if bin == "" {
		bin = "rsvg-convert"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("rsvg rasterizer requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin")
	}

	cmd := exec.CommandContext(ctx, bin, "-f", "png", "-z", fmt.Sprintf("%.2f", scale))
	cmd.Stdin = bytes.NewReader(doc)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	img, err := png.Decode(&out)
	if err != nil {
		return nil, fmt.Errorf("rsvg-convert output: %w", err)
	}
	return img, nil
}
