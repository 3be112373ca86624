package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRoundTrip(t *testing.T) {
	src, err := parseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	want, err := BuildComponents(src)
	require.NoError(t, err)

	tests := []struct {
		name    string
		marshal func(*ConfigData) ([]byte, error)
		parse   func([]byte) (*ConfigData, error)
	}{
		{"yaml", MarshalYAML, parseYAML},
		{"toml", MarshalTOML, parseTOML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.marshal(src)
			require.NoError(t, err)

			cfg, err := tt.parse(data)
			require.NoError(t, err, string(data))
			assert.Equal(t, src.FirstDayOfWaterYear, cfg.FirstDayOfWaterYear)

			got, err := BuildComponents(cfg)
			require.NoError(t, err)
			require.Len(t, got, len(want))
			for i := range want {
				assert.Equal(t, want[i].Name(), got[i].Name())
				assert.Equal(t, want[i].Characteristics(), got[i].Characteristics())
				assert.Equal(t, want[i].ScoringCriteria(), got[i].ScoringCriteria())
			}
		})
	}
}

func TestMarshalTOMLWritesNoneForNullPattern(t *testing.T) {
	src, err := parseYAML([]byte(sampleYAML))
	require.NoError(t, err)

	data, err := MarshalTOML(src)
	require.NoError(t, err)
	assert.Regexp(t, `["']none["']`, string(data))
	assert.Contains(t, string(data), "component_order")
}

func TestWriteFile(t *testing.T) {
	src, err := parseYAML([]byte(sampleYAML))
	require.NoError(t, err)
	dir := t.TempDir()

	for _, name := range []string{"out.yaml", "out.toml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, WriteFile(path, src))

		provider, err := NewProvider(path)
		require.NoError(t, err)
		cfg, err := provider.LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, []string{"wet_season_baseflow", "fall_pulse"}, []string{cfg.Components[0].Name, cfg.Components[1].Name})
	}

	assert.Error(t, WriteFile(filepath.Join(dir, "out.json"), src))
}
