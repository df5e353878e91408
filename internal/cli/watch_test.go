package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Gor-c/emind/pkg/config"
)

func TestReloaderKeepsLastGoodOutput(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	if err := os.Mkdir(out, 0o755); err != nil {
		t.Fatal(err)
	}
	input := writeTree(t, dir, "map.json", `{"name":"Launch","children":[{"name":"Build"}]}`)

	c := testCLI()
	runner, err := c.newRunner(config.Default(), true)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	opts := renderOpts{output: out, formats: []string{"svg"}, width: 800, height: 600}
	r := &reloader{runner: runner, logger: c.Logger, input: input, opts: opts}
	if err := r.reload(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !r.good || len(r.last.files) != 1 {
		t.Fatalf("first reload: good=%v files=%v", r.good, r.last.files)
	}
	first, err := os.ReadFile(r.last.files[0])
	if err != nil {
		t.Fatal(err)
	}

	writeTree(t, dir, "map.json", `{"name":"Launch","children":[{"name":""}]}`)
	if err := r.reload(context.Background()); err == nil {
		t.Fatal("invalid tree reloaded without error")
	}
	after, err := os.ReadFile(r.last.files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, after) {
		t.Error("failed reload touched the last good output")
	}
	if runner.Diagram().Root.Children[0].Name != "Build" {
		t.Error("failed reload replaced the diagram")
	}
}

func TestRunWatchRerendersOnSave(t *testing.T) {
	quiet(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	input := writeTree(t, dir, "map.json", `{"name":"Alpha"}`)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		opts := renderOpts{output: out, formats: []string{"svg"}, noCache: true}
		done <- testCLI().runWatch(ctx, config.Default(), input, opts, 10*time.Millisecond)
	}()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("runWatch: %v", err)
		}
	}()

	waitFile(t, filepath.Join(out, "VisionMind_Alpha.svg"))
	writeTree(t, dir, "map.json", `{"name":"Beta"}`)
	waitFile(t, filepath.Join(out, "VisionMind_Beta.svg"))
}

func TestWatchCommandAcceptsParentOutput(t *testing.T) {
	quiet(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	work := filepath.Join(dir, "work")
	if err := os.Mkdir(work, 0o755); err != nil {
		t.Fatal(err)
	}
	writeTree(t, work, "map.json", `{"name":"Alpha"}`)
	t.Chdir(work)

	cmd := testCLI().watchCommand()
	cmd.SetArgs([]string{"map.json", "-o", "../site", "-f", "svg", "--no-cache", "--debounce", "10ms"})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	waitFile(t, filepath.Join(dir, "site", "VisionMind_Alpha.svg"))
	cancel()
	if err := <-done; err != nil {
		t.Errorf("watch -o ../site: %v", err)
	}
}

func waitFile(t *testing.T, path string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(path); err == nil {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("%s was not written", path)
}
