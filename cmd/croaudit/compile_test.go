package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/liftlens/croaudit/internal/compile"
	"github.com/liftlens/croaudit/internal/config"
	"github.com/liftlens/croaudit/internal/pipeline"
	"github.com/liftlens/croaudit/internal/record"
	"github.com/liftlens/croaudit/internal/report"
)

// sampleRecord is a minimal valid audit record in the agent's wire format.
const sampleRecord = `{
  "site_url": "https://shop.example.com",
  "site_name": "Example Shop",
  "platform": "shopify",
  "audit_date": "2026-02-14",
  "pages": [
    {
      "page_type": "homepage",
      "url": "https://shop.example.com/",
      "findings": [
        {
          "criterion_id": "H1",
          "criterion_name": "Hero Section",
          "lens": "clarity",
          "score": 2,
          "issue": "Headline says nothing about the product",
          "recommendation": "State the value proposition above the fold",
          "priority": "P1",
          "effort": "low",
          "impact": "high"
        }
      ]
    }
  ]
}`

func writeSampleRecord(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "audit.json")
	if err := os.WriteFile(path, []byte(sampleRecord), 0600); err != nil {
		t.Fatalf("write record: %v", err)
	}
	return path
}

func TestNewCompileCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCompileCmd()

	if cmd.Use != "compile [audit-record.json...]" {
		t.Errorf("unexpected Use: got %q", cmd.Use)
	}

	flagsWithShort := map[string]string{
		"format": "F",
		"output": "o",
		"top":    "t",
		"batch":  "b",
		"config": "c",
	}
	for flag, shorthand := range flagsWithShort {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("expected flag %q to exist", flag)
			continue
		}
		if f.Shorthand != shorthand {
			t.Errorf("flag %q: expected shorthand %q, got %q", flag, shorthand, f.Shorthand)
		}
	}

	for _, flag := range []string{"embed-images", "timestamp", "no-save"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag %q to exist", flag)
		}
	}
}

func TestCompileCommandEndToEnd(t *testing.T) {
	t.Parallel()

	input := writeSampleRecord(t)
	output := filepath.Join(t.TempDir(), "report.txt")

	cmd := NewRootCmd()
	cmd.SetArgs([]string{"compile", "--no-save", "-F", "text", "-o", output, input})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("compile failed: %v", err)
	}

	content, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(content), "Example Shop") {
		t.Error("report missing site name")
	}
}

func TestCompileCommandBatchMode(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	inputs := make([]string, 2)
	for i, name := range []string{"first", "second"} {
		path := filepath.Join(dir, name+".json")
		if err := os.WriteFile(path, []byte(sampleRecord), 0600); err != nil {
			t.Fatalf("write record: %v", err)
		}
		inputs[i] = path
	}

	outDir := filepath.Join(dir, "reports")
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"compile", "--no-save", "-F", "markdown", "-o", outDir}, inputs...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("batch compile failed: %v", err)
	}

	for _, name := range []string{"first.md", "second.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing derived report %s: %v", name, err)
		}
	}
}

func TestCompileCommandErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{name: "no input files", args: []string{"compile", "--no-save"}},
		{name: "unknown format", args: []string{"compile", "--no-save", "-F", "pdf", "input.json"}},
		{name: "bad timestamp", args: []string{"compile", "--no-save", "--timestamp", "yesterday", "input.json"}},
		{name: "missing explicit config", args: []string{"compile", "--no-save", "-c", "/nonexistent/.croaudit", "input.json"}},
		{name: "zero top findings", args: []string{"compile", "--no-save", "-t", "0", "input.json"}},
		{name: "zero batch size", args: []string{"compile", "--no-save", "-b", "0", "input.json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewRootCmd()
			cmd.SetArgs(tt.args)
			if err := cmd.Execute(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSiteHost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{input: "https://shop.example.com", want: "shop.example.com"},
		{input: "https://shop.example.com/collections/all", want: "shop.example.com"},
		{input: "http://shop.example.com/", want: "shop.example.com"},
		{input: "shop.example.com", want: "shop.example.com"},
		{input: "shop.example.com/", want: "shop.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := siteHost(tt.input); got != tt.want {
				t.Errorf("siteHost(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDerivedOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		dir    string
		format report.Format
		want   string
	}{
		{
			name:   "next to input",
			input:  "/audits/shop.json",
			format: report.FormatHTML,
			want:   "/audits/shop.html",
		},
		{
			name:   "explicit directory",
			input:  "/audits/shop.json",
			dir:    "/reports",
			format: report.FormatMarkdown,
			want:   "/reports/shop.md",
		},
		{
			name:   "text extension",
			input:  "shop.json",
			format: report.FormatText,
			want:   "shop.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := derivedOutputPath(tt.input, tt.dir, tt.format); got != tt.want {
				t.Errorf("derivedOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSiteOptionsStep(t *testing.T) {
	t.Parallel()

	decodeJob := func(t *testing.T) *pipeline.Job {
		t.Helper()
		job := pipeline.NewJob(writeSampleRecord(t))
		r, err := record.DecodeFile(job.InputPath)
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		job.Report = r
		return job
	}

	t.Run("site overrides apply", func(t *testing.T) {
		t.Parallel()

		embed := false
		sites := &config.File{
			Sites: map[string]config.SiteConfig{
				"shop.example.com": {
					Format:      "markdown",
					EmbedImages: &embed,
					TopFindings: 10,
					Colors:      map[string]string{"critical": "#b91c1c"},
				},
			},
		}

		job := decodeJob(t)
		step := &siteOptionsStep{
			sites:  sites,
			base:   compile.DefaultOptions(),
			format: report.FormatHTML,
		}
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("Do() error = %v", err)
		}

		if job.Options.TopFindings != 10 {
			t.Errorf("TopFindings = %d, want 10", job.Options.TopFindings)
		}
		if job.Options.EmbedImages {
			t.Error("EmbedImages should be overridden to false")
		}
		if len(job.Options.Colors) != 1 {
			t.Errorf("Colors = %v, want one override", job.Options.Colors)
		}
		if job.Format != report.FormatMarkdown {
			t.Errorf("Format = %q, want markdown", job.Format)
		}
	})

	t.Run("explicit format flag wins", func(t *testing.T) {
		t.Parallel()

		sites := &config.File{
			Sites: map[string]config.SiteConfig{
				"shop.example.com": {Format: "markdown"},
			},
		}

		job := decodeJob(t)
		step := &siteOptionsStep{
			sites:        sites,
			base:         compile.DefaultOptions(),
			format:       report.FormatJSON,
			formatLocked: true,
		}
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if job.Format != report.FormatJSON {
			t.Errorf("Format = %q, want the locked json format", job.Format)
		}
	})

	t.Run("derives output path in batch mode", func(t *testing.T) {
		t.Parallel()

		job := decodeJob(t)
		step := &siteOptionsStep{
			sites:     &config.File{Sites: map[string]config.SiteConfig{}},
			base:      compile.DefaultOptions(),
			format:    report.FormatHTML,
			derive:    true,
			outputDir: "/reports",
		}
		if err := step.Do(context.Background(), job); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if job.OutputPath != "/reports/audit.html" {
			t.Errorf("OutputPath = %q", job.OutputPath)
		}
	})

	t.Run("invalid color override fails", func(t *testing.T) {
		t.Parallel()

		sites := &config.File{
			Sites: map[string]config.SiteConfig{
				"shop.example.com": {Colors: map[string]string{"critical": "red"}},
			},
		}

		job := decodeJob(t)
		step := &siteOptionsStep{
			sites:  sites,
			base:   compile.DefaultOptions(),
			format: report.FormatHTML,
		}
		if err := step.Do(context.Background(), job); err == nil {
			t.Error("expected error for malformed color")
		}
	})
}
