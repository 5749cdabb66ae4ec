package session

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logins.yaml")

	local := Login{Host: "localhost", Port: 5432, Database: "app", User: "dev"}
	require.NoError(t, SaveLogin(path, "local", local))

	prod := Login{Host: "db.internal", Port: 5432, Database: "app", User: "svc", Password: "hunter2"}
	require.NoError(t, SaveLogin(path, "prod", prod))

	got, err := LoadLogin(path, "local")
	require.NoError(t, err)
	require.Equal(t, local, got)

	got, err = LoadLogin(path, "prod")
	require.NoError(t, err)
	require.Equal(t, prod, got)
}

func TestLoginFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file modes are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "logins.yaml")
	require.NoError(t, SaveLogin(path, "local", Login{Host: "localhost"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadLoginUnknownProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logins.yaml")
	require.NoError(t, SaveLogin(path, "local", Login{Host: "localhost"}))

	_, err := LoadLogin(path, "nowhere")
	require.ErrorIs(t, err, ErrUnknownProfile)
}

func TestDeleteLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logins.yaml")
	require.NoError(t, SaveLogin(path, "local", Login{Host: "localhost"}))
	require.NoError(t, SaveLogin(path, "prod", Login{Host: "db.internal"}))

	require.NoError(t, DeleteLogin(path, "local"))
	_, err := LoadLogin(path, "local")
	require.ErrorIs(t, err, ErrUnknownProfile)

	_, err = LoadLogin(path, "prod")
	require.NoError(t, err)

	require.ErrorIs(t, DeleteLogin(path, "local"), ErrUnknownProfile)
}

func TestLoginDSN(t *testing.T) {
	l := Login{Host: "localhost", Port: 5432, Database: "app", User: "dev", Password: "s3cret"}
	require.Equal(t, "host=localhost port=5432 dbname=app user=dev password=s3cret", l.DSN())

	quoted := Login{Host: "localhost", Database: "my app"}
	require.Equal(t, "host=localhost dbname='my app'", quoted.DSN())

	require.Equal(t, "", Login{}.DSN())
}
