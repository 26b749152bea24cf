package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// AppName is the name of the application
	AppName = "oscontrol"
	// SettingsFileName is the settings file expected next to the executable.
	SettingsFileName = "oscontrol.yaml"
	// SettingsPathEnv overrides the settings file location.
	// This is useful for testing.
	SettingsPathEnv = "OSCONTROL_CONFIG"
)

// Credentials holds the OpenStack authentication parameters. They are
// read from the standard OS_* environment variables at startup.
type Credentials struct {
	AuthURL           string
	Username          string
	Password          string
	ProjectName       string
	UserDomainName    string
	ProjectDomainName string
	Region            string
}

// Defaults holds the fallback values for the per-operation flags, read
// from the settings file.
type Defaults struct {
	Image     string `koanf:"image"`
	KeyPair   string `koanf:"key_pair"`
	Flavor    string `koanf:"flavor"`
	Network   string `koanf:"network"`
	ImagePath string `koanf:"image_path"`
}

// Config holds the application's configuration. It is built once at
// startup and passed to every operation; there is no ambient state.
type Config struct {
	Credentials Credentials
	Defaults    Defaults
}

// New builds the configuration from the environment and the settings file.
var New = func() (*Config, error) {
	creds, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	defaults, err := loadDefaults(settingsPath())
	if err != nil {
		return nil, err
	}

	return &Config{Credentials: creds, Defaults: defaults}, nil
}

func credentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		AuthURL:           os.Getenv("OS_AUTH_URL"),
		Username:          os.Getenv("OS_USERNAME"),
		Password:          os.Getenv("OS_PASSWORD"),
		ProjectName:       os.Getenv("OS_PROJECT_NAME"),
		UserDomainName:    os.Getenv("OS_USER_DOMAIN_NAME"),
		ProjectDomainName: os.Getenv("OS_PROJECT_DOMAIN_NAME"),
		Region:            os.Getenv("OS_REGION_NAME"),
	}

	var missing []string
	for name, value := range map[string]string{
		"OS_AUTH_URL":            creds.AuthURL,
		"OS_USERNAME":            creds.Username,
		"OS_PASSWORD":            creds.Password,
		"OS_PROJECT_NAME":        creds.ProjectName,
		"OS_USER_DOMAIN_NAME":    creds.UserDomainName,
		"OS_PROJECT_DOMAIN_NAME": creds.ProjectDomainName,
	} {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		// Sort for a stable error message; the map above iterates randomly.
		sort.Strings(missing)
		return Credentials{}, fmt.Errorf("missing environment variables: %s", strings.Join(missing, ", "))
	}

	return creds, nil
}

// settingsPath returns the path of the settings file: the
// OSCONTROL_CONFIG override if set, otherwise oscontrol.yaml next to
// the executable.
func settingsPath() string {
	if override := os.Getenv(SettingsPathEnv); override != "" {
		return override
	}

	exe, err := os.Executable()
	if err != nil {
		return SettingsFileName
	}
	return filepath.Join(filepath.Dir(exe), SettingsFileName)
}

// loadDefaults reads the settings file. A missing file is not an
// error; the defaults are then empty and the flags must be given on
// the command line where the operation needs them.
func loadDefaults(path string) (Defaults, error) {
	var defaults Defaults

	if _, err := os.Stat(path); err != nil {
		log.Debug("no settings file found, using empty defaults", "path", path)
		return defaults, nil
	}

	log.Debug("using settings file", "path", path)

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return defaults, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	if err := k.Unmarshal("", &defaults); err != nil {
		return defaults, fmt.Errorf("failed to decode settings file %s: %w", path, err)
	}

	return defaults, nil
}
