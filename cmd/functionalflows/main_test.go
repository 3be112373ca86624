package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrissnell/functionalflows/internal/app"
)

const componentsYAML = `first_day_of_water_year: 274
components:
  fall_pulse:
    characteristics: [timing, magnitude]
    parameters:
      - [1, 90]
      - [1, 0.0, ">"]
    scoring_pattern: [1, 1]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	code, stdout, _ := run("--version")
	assert.Equal(t, app.ExitOK, code)
	assert.True(t, strings.HasPrefix(stdout, "functionalflows v"+version))
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "components.yaml", componentsYAML)
	series := writeFile(t, dir, "series.csv", "date,flow\n2022-10-01,1\n2022-10-02,0\n")

	code, stdout, stderr := run("run", "-c", cfg, "-i", series, "--concurrency", "1")
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Equal(t, "date,flow,day_of_water_year,fall_pulse_timing,fall_pulse_magnitude,fall_pulse_success\n"+
		"2022-10-01,1,1,1,1,1\n"+
		"2022-10-02,0,2,1,0,0\n", stdout)
}

func TestRunCommandExitCodes(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "components.yaml", componentsYAML)
	badCfg := writeFile(t, dir, "bad.yaml", "first_day_of_water_year: 400\n"+strings.TrimPrefix(componentsYAML, "first_day_of_water_year: 274\n"))
	badSeries := writeFile(t, dir, "bad.csv", "date,flow\nnot-a-date,1\n")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing input", []string{"run", "-c", cfg, "-i", filepath.Join(dir, "missing.csv")}, app.ExitFile},
		{"bad data", []string{"run", "-c", cfg, "-i", badSeries}, app.ExitData},
		{"bad config", []string{"run", "-c", badCfg, "-i", badSeries}, app.ExitConfig},
		{"missing flag", []string{"run", "-c", cfg}, app.ExitOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := run(tt.args...)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "components.yaml", componentsYAML)

	code, stdout, _ := run("validate", "-c", cfg)
	require.Equal(t, app.ExitOK, code)
	assert.Contains(t, stdout, "fall_pulse")
	assert.Contains(t, stdout, "timing,magnitude")
	assert.Contains(t, stdout, "success")
}

func TestConvertConfigCommand(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "components.yaml", componentsYAML)
	dst := filepath.Join(dir, "components.toml")

	code, _, stderr := run("convert-config", "--from", src, "--to", dst)
	require.Equal(t, app.ExitOK, code, stderr)

	code, stdout, _ := run("validate", "-c", dst)
	require.Equal(t, app.ExitOK, code)
	assert.Contains(t, stdout, "fall_pulse")

	code, _, _ = run("convert-config", "--from", src, "--to", dst)
	assert.Equal(t, app.ExitOther, code)
}

func TestConfigPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	path, err := configPath("components.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "components.yaml"), path)

	path, err = configPath("/etc/functionalflows/components.toml")
	require.NoError(t, err)
	assert.Equal(t, "/etc/functionalflows/components.toml", path)
}

func TestSubcommandsResolveRelativeConfig(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir, err := os.MkdirTemp(wd, "config")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	writeFile(t, dir, "components.yaml", componentsYAML)
	rel := filepath.Join(filepath.Base(dir), "components.yaml")

	code, stdout, stderr := run("validate", "-c", rel)
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Contains(t, stdout, "fall_pulse")

	dst := filepath.Join(filepath.Base(dir), "components.toml")
	code, stdout, stderr = run("convert-config", "--from", rel, "--to", dst)
	require.Equal(t, app.ExitOK, code, stderr)
	assert.Contains(t, stdout, filepath.Join(dir, "components.toml"))
}
