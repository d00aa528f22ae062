package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTestConfig(t *testing.T, backend string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`
[logging]
level = "error"
format = "json"

[storage]
backend = %q
path = %q

[report]
export_dir = %q
`, backend, filepath.Join(dir, "records"), filepath.Join(dir, "exports"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path, dir
}

func seed(t *testing.T, configPath string) {
	t.Helper()
	a, err := newApp(configPath)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	_, _, err = a.services.Checklist.Save(ctx, "han", map[string][]string{"ILS": {"1"}})
	require.NoError(t, err)
	_, _, err = a.services.Checklist.Save(ctx, "sgn", map[string][]string{"AIRPORT_NAME": {"Tan Son Nhat"}})
	require.NoError(t, err)
}

func TestAirportsCommand(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfg, _ := writeTestConfig(t, backend)
			seed(t, cfg)

			out, err := executeContext(context.Background(), "--config", cfg, "airports")
			require.NoError(t, err)
			assert.Equal(t, "HAN\nSGN\n", out)
		})
	}
}

func TestExportCommand(t *testing.T) {
	cfg, dir := writeTestConfig(t, "json")
	seed(t, cfg)

	out, err := executeContext(context.Background(), "--config", cfg, "export", "--airports", "han")
	require.NoError(t, err)

	path := strings.TrimSpace(out)
	assert.Equal(t, filepath.Join(dir, "exports"), filepath.Dir(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "HAN", rows[1][0])
}

func TestHashPasswordCommand(t *testing.T) {
	out, err := executeContext(context.Background(), "hash-password", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "$2a$"))
}

// executeContext runs the root command with args, used by tests
func executeContext(ctx context.Context, args ...string) (string, error) {
	root := newRootCommand()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return out.String(), err
}
