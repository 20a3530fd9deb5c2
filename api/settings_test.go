package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every STRUCTURIZR_* variable for the duration of the
// test; viper ignores empty variables.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range settingKeys {
		t.Setenv(envPrefix+"_"+strings.ToUpper(key), "")
	}
}

func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for k, v := range values {
		t.Setenv(k, v)
	}
}

func TestLoadSettings_FromEnvironment(t *testing.T) {
	clearEnv(t)
	archive := t.TempDir()
	setEnv(t, map[string]string{
		"STRUCTURIZR_URL":                        "https://structurizr.example.com/api",
		"STRUCTURIZR_WORKSPACE_ID":               "19",
		"STRUCTURIZR_API_KEY":                    testKey,
		"STRUCTURIZR_API_SECRET":                 testSecret,
		"STRUCTURIZR_USER":                       "astley@localhost",
		"STRUCTURIZR_AGENT":                      "c4-go/1.0.0",
		"STRUCTURIZR_WORKSPACE_ARCHIVE_LOCATION": archive,
	})

	s, err := LoadSettings("")

	require.NoError(t, err)
	assert.Equal(t, "https://structurizr.example.com/api", s.URL)
	assert.Equal(t, int64(19), s.WorkspaceID)
	assert.Equal(t, testKey, s.APIKey)
	assert.Equal(t, testSecret, s.APISecret)
	assert.Equal(t, "astley@localhost", s.User)
	assert.Equal(t, "c4-go/1.0.0", s.Agent)
	assert.Equal(t, archive, s.WorkspaceArchiveLocation)
}

func TestLoadSettings_FromDotenv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, "structurizr.env")
	content := strings.Join([]string{
		"STRUCTURIZR_WORKSPACE_ID=19",
		"STRUCTURIZR_API_KEY=" + testKey,
		"STRUCTURIZR_API_SECRET=" + testSecret,
		"STRUCTURIZR_USER=astley@localhost",
		"STRUCTURIZR_WORKSPACE_ARCHIVE_LOCATION=" + dir,
		"UNRELATED=ignored",
	}, "\n")
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Run("FileOnly", func(t *testing.T) {
		s, err := LoadSettings(envFile)

		require.NoError(t, err)
		assert.Equal(t, int64(19), s.WorkspaceID)
		assert.Equal(t, testKey, s.APIKey)
		assert.Equal(t, "astley@localhost", s.User)
		assert.Equal(t, dir, s.WorkspaceArchiveLocation)
		assert.Equal(t, DefaultURL, s.URL)
	})

	t.Run("EnvironmentWins", func(t *testing.T) {
		t.Setenv("STRUCTURIZR_WORKSPACE_ID", "42")

		s, err := LoadSettings(envFile)

		require.NoError(t, err)
		assert.Equal(t, int64(42), s.WorkspaceID)
	})
}

func TestLoadSettings_Defaults(t *testing.T) {
	clearEnv(t)
	setEnv(t, map[string]string{
		"STRUCTURIZR_WORKSPACE_ID": "19",
		"STRUCTURIZR_API_KEY":      testKey,
		"STRUCTURIZR_API_SECRET":   testSecret,
	})
	cwd, err := os.Getwd()
	require.NoError(t, err)

	s, err := LoadSettings("")

	require.NoError(t, err)
	assert.Equal(t, DefaultURL, s.URL)
	assert.Equal(t, DefaultAgent, s.Agent)
	assert.NotEmpty(t, s.User)
	assert.Equal(t, cwd, s.WorkspaceArchiveLocation)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	clearEnv(t)

	_, err := LoadSettings(filepath.Join(t.TempDir(), "missing.env"))

	assert.Error(t, err)
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Settings {
		return Settings{
			URL:                      DefaultURL,
			WorkspaceID:              19,
			APIKey:                   testKey,
			APISecret:                testSecret,
			User:                     "astley@localhost",
			Agent:                    "c4-go/1.0.0",
			WorkspaceArchiveLocation: os.TempDir(),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "Valid", mutate: func(*Settings) {}},
		{name: "BadURL", mutate: func(s *Settings) { s.URL = "not a url" }, wantErr: "STRUCTURIZR_URL must be a URL"},
		{name: "MissingWorkspace", mutate: func(s *Settings) { s.WorkspaceID = 0 }, wantErr: "STRUCTURIZR_WORKSPACE_ID must be a positive number"},
		{name: "KeyNotUUID", mutate: func(s *Settings) { s.APIKey = "secret" }, wantErr: "STRUCTURIZR_API_KEY must be a version 4 UUID"},
		{name: "MissingSecret", mutate: func(s *Settings) { s.APISecret = "" }, wantErr: "STRUCTURIZR_API_SECRET is required"},
		{name: "ArchiveNotADirectory", mutate: func(s *Settings) { s.WorkspaceArchiveLocation = "/definitely/not/here" }, wantErr: "STRUCTURIZR_WORKSPACE_ARCHIVE_LOCATION must be an existing directory"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := valid()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
