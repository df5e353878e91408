package scene

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses the color forms an upstream generator tends to emit:
// #rgb, #rrggbb, #rrggbbaa, rgb(r, g, b), and SVG color names.
func ParseColor(s string) (color.RGBA, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return color.RGBA{}, fmt.Errorf("empty color")
	case strings.HasPrefix(v, "#"):
		return parseHex(v[1:])
	case strings.HasPrefix(v, "rgb(") && strings.HasSuffix(v, ")"):
		return parseRGB(v[4 : len(v)-1])
	}
	if c, ok := colornames.Map[v]; ok {
		return c, nil
	}
	return color.RGBA{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(h string) (color.RGBA, error) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color #%s", h)
	}
	n, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color #%s", h)
	}
	if len(h) == 6 {
		return color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xff}, nil
	}
	return color.RGBA{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}

func parseRGB(body string) (color.RGBA, error) {
	parts := strings.Split(body, ",")
	if len(parts) != 3 {
		return color.RGBA{}, fmt.Errorf("invalid rgb() color %q", body)
	}
	var c [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return color.RGBA{}, fmt.Errorf("invalid rgb() component %q", p)
		}
		c[i] = uint8(n)
	}
	return color.RGBA{c[0], c[1], c[2], 0xff}, nil
}

// Hex formats c as #rrggbb, or #rrggbbaa when c is translucent.
func Hex(c color.RGBA) string {
	if c.A != 0xff {
		return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// resolve returns the normalized form of s, or fallback if s is absent or
// unparseable.
func resolve(s, fallback string) string {
	if s == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		return fallback
	}
	return Hex(c)
}
