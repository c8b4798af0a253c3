package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/psiscan/internal/config"
	"github.com/nao1215/psiscan/internal/cv"
)

const johnCV = `{
  "cv": {
    "PersonalStatement": [{"text": "John Smith, 34 years old, Male."}],
    "Experience": [{"text": "Worked at Acme Corp in Paris, France."}]
  }
}`

const gazetteerConfig = `ner:
  backend: gazetteer
gazetteer:
  ORG: [Acme Corp]
  LOC: [Paris, France]
`

// scanFixture writes a config file and a CV directory and returns their paths.
func scanFixture(t *testing.T, files map[string]string) (configPath, dir string) {
	t.Helper()

	root := t.TempDir()
	configPath = filepath.Join(root, "psiscan.yaml")
	if err := os.WriteFile(configPath, []byte(gazetteerConfig), 0o600); err != nil {
		t.Fatal(err)
	}

	dir = filepath.Join(root, "cvs")
	if err := os.Mkdir(dir, 0o750); err != nil {
		t.Fatal(err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return configPath, dir
}

func executeScan(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"scan"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// TestNewScanCmd tests the scan command creation.
func TestNewScanCmd(t *testing.T) {
	t.Parallel()

	cmd := NewScanCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "scan [dir]" {
			t.Errorf("expected use 'scan [dir]', got %q", cmd.Use)
		}
	})

	t.Run("accepts at most one directory", func(t *testing.T) {
		t.Parallel()
		if err := cmd.Args(cmd, []string{"a", "b"}); err == nil {
			t.Error("expected error for two directories")
		}
		if err := cmd.Args(cmd, nil); err != nil {
			t.Errorf("unexpected error for no directory: %v", err)
		}
	})

	flags := []struct {
		name      string
		shorthand string
	}{
		{"config", "c"},
		{"statement", ""},
		{"ner", ""},
		{"model-dir", ""},
		{"ner-url", ""},
		{"education-label", ""},
		{"seed", ""},
		{"json", "j"},
		{"markdown", "m"},
		{"output", "o"},
		{"strict", ""},
		{"sentry-dsn", ""},
	}
	for _, tt := range flags {
		t.Run("has "+tt.name+" flag", func(t *testing.T) {
			t.Parallel()
			flag := cmd.Flags().Lookup(tt.name)
			if flag == nil {
				t.Fatalf("expected %s flag", tt.name)
			}
			if flag.Shorthand != tt.shorthand {
				t.Errorf("expected shorthand %q, got %q", tt.shorthand, flag.Shorthand)
			}
		})
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("flags override the config file", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, nil)
		cmd := NewScanCmd()
		args := []string{
			"-c", configPath,
			"--statement",
			"--education-label", "EDUCATION",
			"--seed", "7",
			"--strict",
		}
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, []string{dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.NER.Backend != config.BackendGazetteer {
			t.Errorf("expected backend from file, got %q", cfg.NER.Backend)
		}
		if cfg.TextSource != config.TextSourceStatement {
			t.Errorf("expected statement text source, got %q", cfg.TextSource)
		}
		if got := cfg.Labels.Education; len(got) != 1 || got[0] != "EDUCATION" {
			t.Errorf("expected education label EDUCATION, got %v", got)
		}
		if cfg.Seed == nil || *cfg.Seed != 7 {
			t.Errorf("expected seed 7, got %v", cfg.Seed)
		}
		if !cfg.Strict {
			t.Error("expected strict mode")
		}
		if cfg.InputDir != dir {
			t.Errorf("expected input dir %q, got %q", dir, cfg.InputDir)
		}
		if len(cfg.Gazetteer["LOC"]) != 2 {
			t.Errorf("expected gazetteer from file, got %v", cfg.Gazetteer)
		}
	})

	t.Run("unset flags keep file values", func(t *testing.T) {
		t.Parallel()

		configPath, _ := scanFixture(t, nil)
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", configPath}); err != nil {
			t.Fatal(err)
		}

		cfg, err := buildConfig(cmd, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.NER.Backend != config.BackendGazetteer {
			t.Errorf("default --ner overrode the file: %q", cfg.NER.Backend)
		}
		if cfg.Seed != nil {
			t.Errorf("expected no seed, got %d", *cfg.Seed)
		}
		if cfg.InputDir != config.DefaultInputDir {
			t.Errorf("expected default input dir, got %q", cfg.InputDir)
		}
	})

	t.Run("explicit missing config file", func(t *testing.T) {
		t.Parallel()

		cmd := NewScanCmd()
		missing := filepath.Join(t.TempDir(), "missing.yaml")
		if err := cmd.ParseFlags([]string{"-c", missing}); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil); !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("textSource: pdf\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cmd := NewScanCmd()
		if err := cmd.ParseFlags([]string{"-c", path}); err != nil {
			t.Fatal(err)
		}
		if _, err := buildConfig(cmd, nil); !errors.Is(err, config.ErrInvalidConfigFile) {
			t.Errorf("expected ErrInvalidConfigFile, got %v", err)
		}
	})
}

func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("prints PSI and anonymized PSI per file", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{"cv1.json": johnCV})
		out, err := executeScan(t, "-c", configPath, "--seed", "1", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, want := range []string{
			"PSI for cv1.json: {First Name: John, Last Name: Smith, Gender: Male, Age: 34 years old,",
			"Organization: [Acme Corp]",
			"Location: [Paris, France]",
			"Anonymized PSI for cv1.json: {First Name: ****, Last Name: *****, Gender: ****, Age: ************,",
			"PSISCAN SUMMARY",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, out)
			}
		}
	})

	t.Run("skips malformed files and continues", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{
			"a.json": "{not json",
			"b.json": johnCV,
		})
		out, err := executeScan(t, "-c", configPath, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Skipped a.json:") {
			t.Errorf("expected skipped line for a.json, got:\n%s", out)
		}
		if !strings.Contains(out, "PSI for b.json:") {
			t.Errorf("expected b.json to be processed, got:\n%s", out)
		}
		if strings.Index(out, "a.json") > strings.Index(out, "b.json") {
			t.Error("expected files in name order")
		}
	})

	t.Run("strict mode fails on skipped files", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{
			"a.json": "{not json",
			"b.json": johnCV,
		})
		_, err := executeScan(t, "-c", configPath, "--strict", dir)
		if !errors.Is(err, ErrSkippedFiles) {
			t.Errorf("expected ErrSkippedFiles, got %v", err)
		}
	})

	t.Run("statement mode skips CVs without a statement", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{
			"a.json": `{"cv": {"Experience": [{"text": "Worked at Acme Corp."}]}}`,
			"b.json": johnCV,
		})
		out, err := executeScan(t, "-c", configPath, "--statement", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "Skipped a.json:") {
			t.Errorf("expected a.json to be skipped, got:\n%s", out)
		}
		// Only the statement is searched, so the experience section's entities are absent.
		if strings.Contains(out, "Acme Corp") {
			t.Errorf("expected no organization from other sections, got:\n%s", out)
		}
	})

	t.Run("missing input directory is fatal", func(t *testing.T) {
		t.Parallel()

		configPath, _ := scanFixture(t, nil)
		missing := filepath.Join(t.TempDir(), "nope")
		_, err := executeScan(t, "-c", configPath, missing)
		if !errors.Is(err, cv.ErrDirectoryNotFound) {
			t.Errorf("expected ErrDirectoryNotFound, got %v", err)
		}
	})

	t.Run("json and markdown are mutually exclusive", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, nil)
		if _, err := executeScan(t, "-c", configPath, "-j", "-m", dir); err == nil {
			t.Error("expected error for --json with --markdown")
		}
	})

	t.Run("same seed gives identical anonymization", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{"cv1.json": johnCV})
		anonymized := func() string {
			out, err := executeScan(t, "-c", configPath, "--seed", "42", dir)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, line := range strings.Split(out, "\n") {
				if strings.HasPrefix(line, "Anonymized PSI") {
					return line
				}
			}
			t.Fatalf("no anonymized line in:\n%s", out)
			return ""
		}
		if first, second := anonymized(), anonymized(); first != second {
			t.Errorf("expected identical output:\n%s\n%s", first, second)
		}
	})

	t.Run("writes a JSON report file", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{
			"a.json": "{not json",
			"b.json": johnCV,
		})
		reportPath := filepath.Join(t.TempDir(), "out", "report.json")
		out, err := executeScan(t, "-c", configPath, "-j", "-o", reportPath, dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out != "" {
			t.Errorf("expected nothing on stdout, got %q", out)
		}

		data, err := os.ReadFile(reportPath)
		if err != nil {
			t.Fatalf("report not written: %v", err)
		}
		var got struct {
			Summary struct {
				Processed int `json:"processed"`
				Skipped   int `json:"skipped"`
			} `json:"summary"`
			Run struct {
				Recognizer string `json:"recognizer"`
			} `json:"run"`
		}
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Summary.Processed != 1 || got.Summary.Skipped != 1 {
			t.Errorf("expected 1 processed and 1 skipped, got %+v", got.Summary)
		}
		if got.Run.Recognizer != "gazetteer" {
			t.Errorf("expected gazetteer recognizer, got %q", got.Run.Recognizer)
		}
	})

	t.Run("writes a Markdown report", func(t *testing.T) {
		t.Parallel()

		configPath, dir := scanFixture(t, map[string]string{"cv1.json": johnCV})
		out, err := executeScan(t, "-c", configPath, "-m", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, "# PSI Scan Report") {
			t.Errorf("expected markdown heading, got:\n%s", out)
		}
	})
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseReportFile(t *testing.T) {
	t.Parallel()

	errDisk := errors.New("disk full")
	errEarlier := errors.New("write failed")

	tests := []struct {
		name     string
		closeErr error
		prior    error
		want     error
	}{
		{name: "close error is returned", closeErr: errDisk, want: errDisk},
		{name: "earlier error wins", closeErr: errDisk, prior: errEarlier, want: errEarlier},
		{name: "clean close keeps nil", closeErr: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.prior
			closeReportFile(closerFunc(func() error { return tt.closeErr }), &err)
			if tt.want == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestScanHelpText(t *testing.T) {
	t.Parallel()

	long := NewScanCmd().Long
	for _, want := range []string{
		"PSI for cv1.json: {First Name: John,",
		"Anonymized PSI for cv1.json: {First Name: ****,",
		"-tags onnx",
		"--ner http or --ner gazetteer",
	} {
		if !strings.Contains(long, want) {
			t.Errorf("expected help to contain %q", want)
		}
	}
	if strings.Contains(long, "'First Name'") {
		t.Error("help shows quoted keys that the report never prints")
	}
}
