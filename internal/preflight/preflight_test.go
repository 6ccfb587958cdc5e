package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/invoice-automation/internal/config"
)

// scaffold builds a project root with every asset in place and returns the
// matching configuration.
func scaffold(t *testing.T) *config.MainConfig {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "create_json"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "invoice_gen", "TEMPLATE"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "invoice_gen", "config"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "create_json", "main.py"), []byte("print()\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "invoice_gen", "generate_invoice.py"), []byte("print()\n"), 0644))

	cfg := config.Default()
	cfg.ProjectRoot = root
	return cfg
}

func TestCheckAssetsAllPresent(t *testing.T) {
	cfg := scaffold(t)

	problems := CheckAssets(cfg)
	assert.Empty(t, problems)
}

func TestCheckAssetsReportsEveryMissingAsset(t *testing.T) {
	cfg := config.Default()
	cfg.ProjectRoot = filepath.Join(t.TempDir(), "empty")

	problems := CheckAssets(cfg)
	require.Len(t, problems, 4, "all four assets should be reported at once")

	assert.Equal(t, "Extraction script", problems[0].Asset)
	assert.Equal(t, "Generation script", problems[1].Asset)
	assert.Equal(t, "Template directory", problems[2].Asset)
	assert.Equal(t, "Generator config directory", problems[3].Asset)
	assert.Contains(t, problems[0].String(), "not found at")
}

func TestCheckAssetsScriptMustBeFile(t *testing.T) {
	cfg := scaffold(t)
	script := cfg.ExtractScriptPath()
	require.NoError(t, os.Remove(script))
	require.NoError(t, os.MkdirAll(script, 0755))

	problems := CheckAssets(cfg)
	require.Len(t, problems, 1)
	assert.Equal(t, "Extraction script", problems[0].Asset)
}

func TestCheckInterpreter(t *testing.T) {
	cfg := scaffold(t)
	cfg.Python = "definitely-not-an-interpreter-7f3a"
	assert.Error(t, CheckInterpreter(cfg))

	// /bin/sh is present on every platform the automation targets.
	cfg.Python = "sh"
	assert.NoError(t, CheckInterpreter(cfg))
}

func TestGeneratorConfigPath(t *testing.T) {
	cfg := scaffold(t)

	_, err := GeneratorConfigPath(cfg, "JF")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrGeneratorConfigMissing))

	want := filepath.Join(cfg.ConfigDirPath(), "JF_config.json")
	require.NoError(t, os.WriteFile(want, []byte("{}"), 0644))

	got, err := GeneratorConfigPath(cfg, "JF")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
