package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jarhc/config"
	jerrors "github.com/viant/jarhc/errors"
	"github.com/viant/jarhc/inspector/graph"
	"github.com/viant/jarhc/report"
)

func TestLoad(t *testing.T) {
	var testCases = []struct {
		description string
		file        string
		content     string
		env         map[string]string
		dotEnv      string
		expect      func(t *testing.T, cfg *config.Config)
		expectCode  jerrors.Code
	}{
		{
			description: "yaml file",
			file:        "jarhc.yaml",
			content: `release: 11
classpath:
  - lib/a.jar
  - lib/b.jar
coordinates:
  - lib/a.jar=org.acme:a:1.0
analyzers:
  disable: [jar_dependencies]
output:
  format: json
`,
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 11, cfg.Release)
				assert.Equal(t, []string{"lib/a.jar", "lib/b.jar"}, cfg.Classpath)
				assert.Equal(t, []string{"jar_dependencies"}, cfg.Analyzers.Disable)
				assert.Equal(t, "json", cfg.Output.Format)
				assert.Equal(t, config.Default().Workers, cfg.Workers)
				coordinates, err := cfg.CoordinateMap()
				require.NoError(t, err)
				assert.Equal(t, "org.acme:a:1.0", coordinates["lib/a.jar"].String())
			},
		},
		{
			description: "toml file with env override",
			file:        "jarhc.toml",
			content:     "release = 21\nseverity = \"warning\"\n",
			env:         map[string]string{"JARHC_RELEASE": "17", "JARHC_OUTPUT_FORMAT": "json"},
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 17, cfg.Release)
				assert.Equal(t, "json", cfg.Output.Format)
				assert.Equal(t, report.Warning, cfg.AnalyzerConfig().Severity)
			},
		},
		{
			description: "dot env file",
			file:        "jarhc.yaml",
			content:     "release: 11\n",
			dotEnv:      "JARHC_LABEL=nightly\n",
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "nightly", cfg.Label)
			},
		},
		{
			description: "release defaults to highest supported",
			file:        "jarhc.yaml",
			content:     "label: nightly\n",
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, graph.DefaultMaxRelease, cfg.Release)
				assert.Equal(t, config.Default().Release, cfg.Release)
			},
		},
		{
			description: "release follows lowered maxRelease",
			file:        "jarhc.yaml",
			content:     "maxRelease: 21\n",
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 21, cfg.Release)
			},
		},
		{
			description: "release out of range",
			file:        "jarhc.yaml",
			content:     "release: 7\n",
			expectCode:  jerrors.InvalidConfig,
		},
		{
			description: "unknown analyzer",
			file:        "jarhc.yaml",
			content:     "analyzers:\n  enable: [html]\n",
			expectCode:  jerrors.InvalidConfig,
		},
		{
			description: "invalid coordinate",
			file:        "jarhc.yaml",
			content:     "coordinates: [a.jar=broken]\n",
			expectCode:  jerrors.InvalidConfig,
		},
		{
			description: "missing explicit file",
			file:        "",
			expectCode:  jerrors.InvalidConfig,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			dir := t.TempDir()
			location := filepath.Join(dir, "missing.yaml")
			if testCase.file != "" {
				location = filepath.Join(dir, testCase.file)
				require.NoError(t, os.WriteFile(location, []byte(testCase.content), 0644))
			}
			if testCase.dotEnv != "" {
				require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(testCase.dotEnv), 0644))
				t.Cleanup(func() { _ = os.Unsetenv("JARHC_LABEL") })
			}
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			cfg, err := config.Load(location)
			if testCase.expectCode != "" {
				assert.True(t, jerrors.Is(err, testCase.expectCode), err)
				return
			}
			require.NoError(t, err)
			testCase.expect(t, cfg)
		})
	}
}

func TestConfig_Derived(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	cfg.Analyzers.Enable = []string{"duplicate_classes"}

	loader := cfg.InspectorConfig()
	assert.Equal(t, cfg.MaxRelease, loader.MaxRelease)
	assert.True(t, loader.Resources)

	analyzerConfig := cfg.AnalyzerConfig()
	assert.Equal(t, report.Info, analyzerConfig.Severity)
	assert.Equal(t, []string{"duplicate_classes"}, analyzerConfig.Enable)

	cfg.Workers = 0
	assert.True(t, jerrors.Is(cfg.Validate(), jerrors.InvalidConfig))
}
