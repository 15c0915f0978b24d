package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/event-analytics/internal/chart"
	"github.com/iliyamo/event-analytics/internal/utils"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rc := newRootCommand(strings.NewReader(stdin), &out, &errOut)
	rc.SetArgs(args)
	err := rc.Execute()
	return out.String(), err
}

func TestChartsFromCSV(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "", "charts", "--csv", "../../internal/ingest/testdata/attendees_fixture.csv", "--out", dir, "--dpi", "30")
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, len(chart.Files))
	for _, f := range chart.Files {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}
}

func TestChartsMissingCSV(t *testing.T) {
	_, err := run(t, "", "charts", "--csv", filepath.Join(t.TempDir(), "missing.csv"), "--out", t.TempDir())
	assert.Error(t, err)
}

func TestImportCancelled(t *testing.T) {
	out, err := run(t, "n\n", "import", "some.csv")
	require.NoError(t, err)
	assert.Contains(t, out, "Import data from 'some.csv'? (y/N): ")
	assert.Contains(t, out, "Import cancelled.")
}

func TestConfirm(t *testing.T) {
	tests := map[string]bool{"y\n": true, "YES\n": true, " y ": true, "\n": false, "no\n": false, "": false}
	for in, want := range tests {
		assert.Equal(t, want, confirm(strings.NewReader(in), &bytes.Buffer{}, "? "), "input %q", in)
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "cli-secret")
	out, err := run(t, "", "token", "--subject", "ops")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (interface{}, error) {
		return []byte("cli-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops", claims["sub"])
	assert.Equal(t, utils.RoleAdmin, claims["role"])
}

func TestTokenCommandWithoutSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "", "token")
	assert.ErrorIs(t, err, utils.ErrNoSecret)
}
