package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, filename string, content Config) string {
	t.Helper()
	tempFilePath := filepath.Join(dir, filename)
	data, err := yaml.Marshal(&content)
	assert.NoError(t, err)
	err = os.WriteFile(tempFilePath, data, 0644)
	assert.NoError(t, err)
	return tempFilePath
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()

	// Mock paths to prevent loading any existing config files
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	// Point to non-existent files in temp directory
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-user-config.yaml"), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-project-config.yaml"), nil
	}

	defaults := GetDefaultConfig()

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	assert.Equal(t, defaults.Router, loadedConfig.Router, "Router settings should match default")
	assert.ElementsMatch(t, defaults.Upstreams, loadedConfig.Upstreams, "Upstreams should match default")
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	originalOsUserHomeDir := osUserHomeDir
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
		osUserHomeDir = originalOsUserHomeDir
	}()

	osUserHomeDir = func() (string, error) { return tempDir, nil }
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, userConfigDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-project-config.yaml"), nil
	}

	userConfDir := filepath.Join(tempDir, userConfigDir)
	err := os.MkdirAll(userConfDir, 0755)
	assert.NoError(t, err)

	userOverride := Config{
		Router: RouterConfig{
			Port: 9999,
		},
		Upstreams: []UpstreamDefinition{
			{
				Name:      "kubernetes",
				Transport: TransportStdio,
				Command:   []string{"npx", "mcp-server-kubernetes"},
				Enabled:   true,
			},
			{
				Name:      "weather",
				Transport: TransportSSE,
				URL:       "http://localhost:7001/sse",
				Enabled:   true,
			},
		},
	}
	createTempConfigFile(t, userConfDir, configFileName, userOverride)

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)

	// Router port overridden, host and TTL stay at defaults
	assert.Equal(t, 9999, loadedConfig.Router.Port)
	assert.Equal(t, "localhost", loadedConfig.Router.Host)
	assert.Equal(t, 5*time.Minute, loadedConfig.Router.ToolCacheTTL)

	// Default has no upstreams, user config adds two
	assert.Len(t, loadedConfig.Upstreams, 2)
	foundKube := false
	foundWeather := false
	for _, u := range loadedConfig.Upstreams {
		if u.Name == "kubernetes" {
			assert.Equal(t, TransportStdio, u.Transport)
			assert.Equal(t, []string{"npx", "mcp-server-kubernetes"}, u.Command)
			foundKube = true
		}
		if u.Name == "weather" {
			assert.Equal(t, "http://localhost:7001/sse", u.URL)
			foundWeather = true
		}
	}
	assert.True(t, foundKube, "Added kubernetes upstream not found")
	assert.True(t, foundWeather, "Added weather upstream not found")
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	originalOsGetwd := osGetwd
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
		osGetwd = originalOsGetwd
	}()

	osGetwd = func() (string, error) { return tempDir, nil }
	getUserConfigPath = func() (string, error) {
		return filepath.Join(tempDir, userConfigDir, configFileName), nil
	}
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, projectConfigDir, configFileName), nil
	}

	userConfDir := filepath.Join(tempDir, userConfigDir)
	assert.NoError(t, os.MkdirAll(userConfDir, 0755))
	createTempConfigFile(t, userConfDir, configFileName, Config{
		Upstreams: []UpstreamDefinition{
			{Name: "weather", Transport: TransportSSE, URL: "http://user:7001/sse", Enabled: true},
		},
	})

	projectConfDir := filepath.Join(tempDir, projectConfigDir)
	assert.NoError(t, os.MkdirAll(projectConfDir, 0755))
	createTempConfigFile(t, projectConfDir, configFileName, Config{
		Router: RouterConfig{Host: "0.0.0.0"},
		Upstreams: []UpstreamDefinition{
			{Name: "weather", Transport: TransportStreamableHTTP, URL: "http://project:7002/mcp", Enabled: true},
		},
	})

	loadedConfig, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "0.0.0.0", loadedConfig.Router.Host)

	// Project definition replaces the user one for the same name
	assert.Len(t, loadedConfig.Upstreams, 1)
	assert.Equal(t, TransportStreamableHTTP, loadedConfig.Upstreams[0].Transport)
	assert.Equal(t, "http://project:7002/mcp", loadedConfig.Upstreams[0].URL)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	tempDir := t.TempDir()

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	defer func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	}()

	badPath := filepath.Join(tempDir, configFileName)
	assert.NoError(t, os.WriteFile(badPath, []byte("upstreams: [unclosed"), 0644))

	getUserConfigPath = func() (string, error) { return badPath, nil }
	getProjectConfigPath = func() (string, error) {
		return filepath.Join(tempDir, "non-existent-project-config.yaml"), nil
	}

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestUpstreamDefinition_Label(t *testing.T) {
	tests := []struct {
		name     string
		def      UpstreamDefinition
		expected string
	}{
		{"display name wins", UpstreamDefinition{Name: "weather", DisplayName: "Weather Service"}, "Weather Service"},
		{"falls back to name", UpstreamDefinition{Name: "weather"}, "weather"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.def.Label())
		})
	}
}
