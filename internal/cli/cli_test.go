package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/graph"
	"github.com/microsoft/PowerBI-visuals-ClusterMap-sub000/pkg/pipeline"
)

const triangleJSON = `{
  "nodes": [
    {"id": "a", "width": 10, "height": 10},
    {"id": "b", "width": 10, "height": 10},
    {"id": "c", "width": 10, "height": 10}
  ],
  "links": [
    {"source": "a", "target": "b"},
    {"source": "b", "target": "c"},
    {"source": "c", "target": "a"}
  ],
  "groups": [
    {"id": "ab", "leaves": ["a", "b"]}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// captureStdout redirects CLI output for the duration of a test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

// execute runs the root command with args and a quiet logger.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	want := []string{"completion", "layout", "overlap", "paths", "watch"}
	var got []string
	for _, cmd := range root.Commands() {
		got = append(got, cmd.Name())
	}
	slices.Sort(got)
	for _, name := range want {
		if !slices.Contains(got, name) {
			t.Errorf("missing subcommand %q in %v", name, got)
		}
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, DOT,,yaml", []string{"json", "dot", "yaml"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputBase(t *testing.T) {
	tests := []struct {
		input, output, want string
	}{
		{"dir/net.yaml", "", "dir/net.layout"},
		{"net.json", "out/result.svg", "out/result"},
		{"net.json", "out/result", "out/result"},
		{"net.json", "out/result.v2", "out/result.v2"},
	}
	for _, tt := range tests {
		if got := outputBase(tt.input, tt.output); got != tt.want {
			t.Errorf("outputBase(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
		}
	}
}

func TestApplyConfigFileFlagsWin(t *testing.T) {
	path := writeFile(t, "opts.toml", "width = 100\nheight = 200\navoid_overlaps = true\n")

	var opts pipeline.Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindLayoutFlags(fs, &opts)
	if err := fs.Parse([]string{"--width", "300"}); err != nil {
		t.Fatal(err)
	}

	if err := applyConfigFile(fs, path, &opts); err != nil {
		t.Fatalf("applyConfigFile: %v", err)
	}
	if opts.Width != 300 {
		t.Errorf("Width = %v, want flag value 300", opts.Width)
	}
	if opts.Height != 200 || !opts.AvoidOverlaps {
		t.Errorf("file values not applied: %+v", opts)
	}
}

func TestApplyConfigFileMissing(t *testing.T) {
	var opts pipeline.Options
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindLayoutFlags(fs, &opts)
	if err := applyConfigFile(fs, filepath.Join(t.TempDir(), "none.toml"), &opts); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLayoutCommandWritesArtifacts(t *testing.T) {
	out := captureStdout(t)
	input := writeFile(t, "triangle.json", triangleJSON)
	base := filepath.Join(t.TempDir(), "result")

	err := execute(t, "layout", input, "-o", base, "-f", "json,dot", "--avoid-overlaps", "--table")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}

	res, err := graph.ReadResult(mustOpen(t, base+".json"), graph.FormatJSON)
	if err != nil {
		t.Fatalf("read result: %v", err)
	}
	if len(res.Nodes) != 3 || len(res.Groups) != 1 {
		t.Errorf("result has %d nodes and %d groups, want 3 and 1", len(res.Nodes), len(res.Groups))
	}
	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "graph G {") {
		t.Errorf("dot output starts with %q", string(dot[:min(20, len(dot))]))
	}
	if !strings.Contains(out.String(), "Layout complete") {
		t.Errorf("stdout = %q, want success message", out.String())
	}
}

func TestLayoutCommandConfigFormats(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "triangle.json", triangleJSON)
	config := writeFile(t, "opts.toml", "formats = [\"yaml\"]\nwidth = 400\n")
	base := filepath.Join(t.TempDir(), "result")

	if err := execute(t, "layout", input, "-o", base, "--config", config); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if _, err := os.Stat(base + ".yaml"); err != nil {
		t.Errorf("yaml artifact missing: %v", err)
	}
	if _, err := os.Stat(base + ".json"); err == nil {
		t.Error("json artifact written although config selected yaml only")
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "triangle.json", triangleJSON)
	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"layout", filepath.Join(t.TempDir(), "none.json")}},
		{"bad format", []string{"layout", input, "-f", "png"}},
		{"stdout with two formats", []string{"layout", input, "-o", "-", "-f", "json,dot"}},
		{"bad flow axis", []string{"layout", input, "--flow", "z"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOverlapCommand(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "rects.json", `[
  {"id": "a", "x": 0, "y": 0, "width": 10, "height": 10},
  {"id": "b", "x": 2, "y": 1, "width": 10, "height": 10},
  {"id": "c", "x": 4, "y": 0, "width": 10, "height": 10}
]`)
	output := filepath.Join(t.TempDir(), "out.yaml")

	if err := execute(t, "overlap", input, "-o", output); err != nil {
		t.Fatalf("overlap: %v", err)
	}
	rs, err := graph.ReadRectsFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(rs) != 3 {
		t.Fatalf("got %d rectangles, want 3", len(rs))
	}
	const eps = 1e-6
	for i := range rs {
		for j := i + 1; j < len(rs); j++ {
			dx := abs(rs[i].X - rs[j].X)
			dy := abs(rs[i].Y - rs[j].Y)
			if dx < 10-eps && dy < 10-eps {
				t.Errorf("%s and %s still overlap: dx=%v dy=%v", rs[i].ID, rs[j].ID, dx, dy)
			}
		}
	}
}

func TestMetricsFile(t *testing.T) {
	captureStdout(t)
	input := writeFile(t, "triangle.json", triangleJSON)
	dir := t.TempDir()
	metricsPath := filepath.Join(dir, "metrics.prom")

	err := execute(t, "--metrics-file", metricsPath, "layout", input, "-o", filepath.Join(dir, "out"), "--converge", "--max-ticks", "5")
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{
		`clustermap_layouts_total{status="ok"} 1`,
		"clustermap_layout_nodes 3",
		`clustermap_renders_total{format="json",status="ok"} 1`,
		`clustermap_cache_requests_total{result="miss",type="layout"} 1`,
	} {
		if !strings.Contains(string(data), want) {
			t.Errorf("metrics missing %q:\n%s", want, data)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(buf.String(), "clustermap") {
		t.Error("bash completion should mention the command name")
	}
}

func mustOpen(t *testing.T, path string) io.Reader {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
