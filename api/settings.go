package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultAgent identifies this client to the remote service unless
// STRUCTURIZR_AGENT says otherwise. The CLI stamps its version into it.
var DefaultAgent = "c4-go/dev"

// DefaultURL is the public workspace service.
const DefaultURL = "https://api.structurizr.com"

const envPrefix = "STRUCTURIZR"

// Settings configures a Client. Every field can be set through a
// STRUCTURIZR_<FIELD> environment variable or a .env file.
type Settings struct {
	// URL of the workspace API.
	URL string `mapstructure:"url" validate:"required,url"`

	// WorkspaceID is the remote workspace identifier.
	WorkspaceID int64 `mapstructure:"workspace_id" validate:"gt=0"`

	APIKey    string `mapstructure:"api_key" validate:"required,uuid4"`
	APISecret string `mapstructure:"api_secret" validate:"required,uuid4"`

	// User identifies the person making changes, e.g. an e-mail address.
	User string `mapstructure:"user" validate:"required"`

	// Agent identifies the client software, e.g. "c4-go/1.2.0".
	Agent string `mapstructure:"agent" validate:"required"`

	// WorkspaceArchiveLocation is an existing directory that receives a
	// copy of every downloaded workspace.
	WorkspaceArchiveLocation string `mapstructure:"workspace_archive_location" validate:"required,dir"`
}

var settingKeys = []string{
	"url",
	"workspace_id",
	"api_key",
	"api_secret",
	"user",
	"agent",
	"workspace_archive_location",
}

// LoadSettings reads client settings.
//
// Precedence (highest to lowest):
//  1. STRUCTURIZR_* environment variables
//  2. the env file (".env" in the working directory when envFile is empty)
//  3. default values
//
// A missing default .env file is not an error; a missing explicit one is.
func LoadSettings(envFile string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if err := mergeEnvFile(v, envFile); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	for _, key := range settingKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	s := &Settings{}
	if err := v.Unmarshal(s); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", DefaultURL)
	v.SetDefault("user", defaultUser())
	v.SetDefault("agent", DefaultAgent)
	if cwd, err := os.Getwd(); err == nil {
		v.SetDefault("workspace_archive_location", cwd)
	}
}

// mergeEnvFile reads STRUCTURIZR_* assignments from a dotenv file into
// v's config layer so that real environment variables still win.
func mergeEnvFile(v *viper.Viper, path string) error {
	explicit := path != ""
	if !explicit {
		path = ".env"
	}

	f := viper.New()
	f.SetConfigFile(path)
	f.SetConfigType("env")
	if err := f.ReadInConfig(); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}

	values := make(map[string]any)
	prefix := strings.ToLower(envPrefix) + "_"
	for _, key := range f.AllKeys() {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			values[name] = f.Get(key)
		}
	}
	return v.MergeConfigMap(values)
}

// defaultUser is user@host, or "anonymous" when the account cannot be
// determined.
func defaultUser() string {
	name := "anonymous"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		name += "@" + host
	}
	return name
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return envPrefix + "_" + strings.ToUpper(f.Tag.Get("mapstructure"))
	})
	return v
}

// Validate checks that s can be used to reach a workspace. Failures name
// the environment variable to fix.
func (s *Settings) Validate() error {
	err := validate.Struct(s)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describe(fe))
	}
	return fmt.Errorf("invalid settings: %s", strings.Join(problems, "; "))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "url":
		return fe.Field() + " must be a URL"
	case "uuid4":
		return fe.Field() + " must be a version 4 UUID"
	case "gt":
		return fe.Field() + " must be a positive number"
	case "dir":
		return fe.Field() + " must be an existing directory"
	default:
		return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
	}
}
