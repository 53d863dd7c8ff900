package dotenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSkipsMissingAndKeepsExisting(t *testing.T) {
	t.Log("Шаг 1: создаём два файла окружения")
	dir := t.TempDir()
	local := filepath.Join(dir, ".env.local")
	shared := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(local, []byte("PERF_DOTENV_A=local\n"), 0o600))
	require.NoError(t, os.WriteFile(shared, []byte("PERF_DOTENV_A=shared\nPERF_DOTENV_B=shared\n"), 0o600))
	t.Setenv("PERF_DOTENV_A", "")
	t.Setenv("PERF_DOTENV_B", "")
	os.Unsetenv("PERF_DOTENV_A")
	os.Unsetenv("PERF_DOTENV_B")

	require.NoError(t, Load(local, filepath.Join(dir, "missing"), shared))

	t.Log("Шаг 2: первый файл имеет приоритет")
	assert.Equal(t, "local", os.Getenv("PERF_DOTENV_A"))
	assert.Equal(t, "shared", os.Getenv("PERF_DOTENV_B"))
}

func TestLoadWithoutFiles(t *testing.T) {
	assert.NoError(t, Load(filepath.Join(t.TempDir(), "nope")))
}
