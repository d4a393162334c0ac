package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Settings holds connection settings. Empty fields are unset.
type Settings struct {
	APIToken  string
	NetworkID string
	MemberID  string
	APIURL    string
}

// Merge returns s with every empty field taken from fallback.
func (s Settings) Merge(fallback Settings) Settings {
	if s.APIToken == "" {
		s.APIToken = fallback.APIToken
	}
	if s.NetworkID == "" {
		s.NetworkID = fallback.NetworkID
	}
	if s.MemberID == "" {
		s.MemberID = fallback.MemberID
	}
	if s.APIURL == "" {
		s.APIURL = fallback.APIURL
	}
	return s
}

// FromEnv reads settings from the environment through getenv.
func FromEnv(getenv func(string) string) Settings {
	return Settings{
		APIToken:  getenv(EnvAPIToken),
		NetworkID: getenv(EnvNetworkID),
		MemberID:  getenv(EnvMemberID),
		APIURL:    getenv(EnvAPIURL),
	}
}

// LoadDotEnv loads path into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DotEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// DefaultFilePath returns the credentials file location under the user's
// config directory, or "" if it cannot be determined.
func DefaultFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, configDirName, configFileName)
}

// FromFile reads profile from the ini credentials file at path.
// A missing file yields empty settings. A missing profile is an error unless
// it is the default profile.
func FromFile(path, profile string) (Settings, error) {
	if path == "" {
		return Settings{}, nil
	}
	if profile == "" {
		profile = DefaultProfile
	}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if profile != DefaultProfile {
			return Settings{}, fmt.Errorf("profile %q requested but %s does not exist", profile, path)
		}
		return Settings{}, nil
	}

	file, err := ini.Load(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if !file.HasSection(profile) {
		if profile != DefaultProfile {
			return Settings{}, fmt.Errorf("profile %q not found in %s", profile, path)
		}
		return Settings{}, nil
	}
	section := file.Section(profile)

	return Settings{
		APIToken:  section.Key(FileKeyAPIToken).String(),
		NetworkID: section.Key(FileKeyNetworkID).String(),
		MemberID:  section.Key(FileKeyMemberID).String(),
		APIURL:    section.Key(FileKeyAPIURL).String(),
	}, nil
}
