package session

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Login holds the connection parameters for one database, stored under a
// profile name in a credentials file.
type Login struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password,omitempty"`
}

// DSN renders the login as a key/value connection string. Values containing
// spaces or quotes are single-quoted.
func (l Login) DSN() string {
	var parts []string
	add := func(key, value string) {
		if value == "" {
			return
		}
		if strings.ContainsAny(value, " '") {
			value = "'" + strings.ReplaceAll(value, "'", `\'`) + "'"
		}
		parts = append(parts, key+"="+value)
	}
	add("host", l.Host)
	if l.Port != 0 {
		parts = append(parts, fmt.Sprintf("port=%d", l.Port))
	}
	add("dbname", l.Database)
	add("user", l.User)
	add("password", l.Password)
	return strings.Join(parts, " ")
}

// loginFile is the YAML layout of a credentials file: profile name to login.
type loginFile struct {
	Logins map[string]Login `yaml:"logins"`
}

// SaveLogin stores a login under a profile name, creating the file with
// owner-only permissions or rewriting it in place if it exists.
func SaveLogin(path, profile string, l Login) error {
	file := loginFile{Logins: map[string]Login{}}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return fmt.Errorf("session: read logins %s: %w", path, err)
		}
		if file.Logins == nil {
			file.Logins = map[string]Login{}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("session: read logins %s: %w", path, err)
	}

	file.Logins[profile] = l
	data, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("session: encode logins: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("session: write logins %s: %w", path, err)
	}
	return nil
}

// LoadLogin reads the login stored under a profile name. It fails with
// ErrUnknownProfile when the file has no such profile.
func LoadLogin(path, profile string) (Login, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Login{}, fmt.Errorf("session: read logins %s: %w", path, err)
	}
	var file loginFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Login{}, fmt.Errorf("session: read logins %s: %w", path, err)
	}
	l, ok := file.Logins[profile]
	if !ok {
		return Login{}, fmt.Errorf("session: profile %q in %s: %w", profile, path, ErrUnknownProfile)
	}
	return l, nil
}

// DeleteLogin removes a profile from the credentials file. Removing the last
// profile leaves an empty file rather than deleting it.
func DeleteLogin(path, profile string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("session: read logins %s: %w", path, err)
	}
	var file loginFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("session: read logins %s: %w", path, err)
	}
	if _, ok := file.Logins[profile]; !ok {
		return fmt.Errorf("session: profile %q in %s: %w", profile, path, ErrUnknownProfile)
	}
	delete(file.Logins, profile)

	out, err := yaml.Marshal(file)
	if err != nil {
		return fmt.Errorf("session: encode logins: %w", err)
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("session: write logins %s: %w", path, err)
	}
	return nil
}
