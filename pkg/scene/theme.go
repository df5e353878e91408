package scene

import "github.com/Gor-c/emind/pkg/errors"

// Theme holds the colors a scene is painted with.
type Theme struct {
	Accent     string  `toml:"accent" json:"accent"`           // root fill when the root has no color
	Node       string  `toml:"node" json:"node"`               // marker color for uncolored nodes
	Edge       string  `toml:"edge" json:"edge"`               // stroke for edges into uncolored nodes
	Background string  `toml:"background" json:"background"`   // hollow marker fill, export background
	Halo       string  `toml:"halo" json:"halo"`               // label outline drawn under the text
	Text       string  `toml:"text" json:"text"`               // non-root label color
	RootText   string  `toml:"root_text" json:"root_text"`     // root label color
	EdgeAlpha  float64 `toml:"edge_opacity" json:"edge_opacity"`
}

// DefaultTheme returns the stock light theme.
func DefaultTheme() Theme {
	return Theme{
		Accent:     "#4f46e5",
		Node:       "#64748b",
		Edge:       "#9ca3af",
		Background: "#ffffff",
		Halo:       "#fcfcfd",
		Text:       "#1f2937",
		RootText:   "#ffffff",
		EdgeAlpha:  0.6,
	}
}

// Validate checks that every color parses and the opacity is in range.
func (t Theme) Validate() error {
	for name, c := range map[string]string{
		"accent": t.Accent, "node": t.Node, "edge": t.Edge, "background": t.Background,
		"halo": t.Halo, "text": t.Text, "root_text": t.RootText,
	} {
		if _, err := ParseColor(c); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "theme %s", name)
		}
	}
	if t.EdgeAlpha <= 0 || t.EdgeAlpha > 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "theme edge_opacity must be in (0, 1], got %v", t.EdgeAlpha)
	}
	return nil
}

// normalized returns t with every color in #rrggbb form.
func (t Theme) normalized() Theme {
	d := DefaultTheme()
	t.Accent = resolve(t.Accent, d.Accent)
	t.Node = resolve(t.Node, d.Node)
	t.Edge = resolve(t.Edge, d.Edge)
	t.Background = resolve(t.Background, d.Background)
	t.Halo = resolve(t.Halo, d.Halo)
	t.Text = resolve(t.Text, d.Text)
	t.RootText = resolve(t.RootText, d.RootText)
	if t.EdgeAlpha <= 0 || t.EdgeAlpha > 1 {
		t.EdgeAlpha = d.EdgeAlpha
	}
	return t
}
