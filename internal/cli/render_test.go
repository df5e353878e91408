package cli

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/Gor-c/emind/pkg/config"
)

// quiet redirects human output for the duration of a test.
func quiet(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func testCLI() *CLI {
	return &CLI{Logger: log.New(io.Discard)}
}

func writeTree(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"png"}},
		{"svg", []string{"svg"}},
		{"png,svg,json", []string{"png", "svg", "json"}},
		{" PNG , svg ,", []string{"png", "svg"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"png", []string{"png"}, false},
		{"all", []string{"png", "svg", "json"}, false},
		{"pdf", []string{"pdf"}, true},
		{"mixed", []string{"svg", "gif"}, true},
		{"empty", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := validateFormats(tt.formats); (err != nil) != tt.wantErr {
				t.Errorf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	const prefix = "VisionMind_"
	tests := []struct {
		name                 string
		output, root, format string
		multi, multiFormat   bool
		want                 string
	}{
		{"default png", "", "Launch", "png", false, false, "VisionMind_Launch.png"},
		{"default svg", "", "Launch", "svg", false, false, "VisionMind_Launch.svg"},
		{"sanitised", "", "a/b: c", "png", false, false, "VisionMind_a_b_ c.png"},
		{"explicit file", "out.png", "Launch", "png", false, false, "out.png"},
		{"base path", "out/map.png", "Launch", "json", false, true, "out/map.json"},
		{"directory", "out", "Launch", "png", true, false, filepath.Join("out", "VisionMind_Launch.png")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.output, prefix, tt.root, tt.format, tt.multi, tt.multiFormat)
			if got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunRenderSingle(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	in := writeTree(t, dir, "launch.json", launchJSON)
	out := filepath.Join(dir, "map.png")

	opts := renderOpts{output: out, formats: []string{"png", "svg", "json"}, noCache: true, jobs: 1}
	if err := testCLI().runRender(context.Background(), config.Default(), []string{in}, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Errorf("png output: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "map.svg"))
	if err != nil || !bytes.Contains(svg, []byte("<svg")) {
		t.Errorf("svg output: %v", err)
	}
	js, err := os.ReadFile(filepath.Join(dir, "map.json"))
	if err != nil || !bytes.Contains(js, []byte(`"name": "Launch"`)) {
		t.Errorf("json output: %v %s", err, js)
	}
}

func TestRunRenderMany(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	a := writeTree(t, dir, "a.json", launchJSON)
	b := writeTree(t, dir, "b.yaml", launchYAML+"color: \"#059669\"\n")
	b2 := writeTree(t, dir, "c.yaml", "name: Retro\n")
	outDir := filepath.Join(dir, "out")

	opts := renderOpts{output: outDir, formats: []string{"svg"}, noCache: true, jobs: 2}
	if err := testCLI().runRender(context.Background(), config.Default(), []string{a, b2}, opts); err != nil {
		t.Fatalf("runRender: %v", err)
	}
	for _, name := range []string{"VisionMind_Launch.svg", "VisionMind_Retro.svg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	// One bad input fails the whole batch.
	bad := writeTree(t, dir, "bad.json", `{"name":""}`)
	if err := testCLI().runRender(context.Background(), config.Default(), []string{b, bad}, opts); err == nil {
		t.Error("expected an error for an invalid tree")
	}
}
