package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/renga/internal/testutil"
)

func run(t *testing.T, sim *testutil.Renga, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(sim.Backend)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	sim := testutil.NewRenga().SetVersion(8, 2, 1)

	out, err := run(t, sim, "version", "--hidden")
	require.NoError(t, err)
	assert.Contains(t, out, "Renga 8.2.1")
	assert.Contains(t, out, "supported (>= 8.1.0): true")
	assert.True(t, sim.Quit())

	visible, err := sim.App().Calls("Visible")[0].Args[0].AsBool()
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestCategoriesCmd(t *testing.T) {
	out, err := run(t, testutil.NewRenga(), "categories")
	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "equipment")
	assert.Contains(t, out, "{4CD3BC4C-14DA-43CA-BBC5-D7679566B8DD}")
}

func TestImportCmd(t *testing.T) {
	sim := testutil.NewRenga()
	saveAs := filepath.Join(t.TempDir(), "house.rnp")

	out, err := run(t, sim, "import", "equipment", "../../testdata/equipment.rst", "--save-as", saveAs, "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, out, "imported Equipment as entity 1")

	_, err = os.Stat(saveAs)
	assert.NoError(t, err)
	assert.True(t, sim.Quit())
}

func TestImportCmd_RejectsOldApplication(t *testing.T) {
	sim := testutil.NewRenga().SetVersion(7, 9, 0)

	_, err := run(t, sim, "import", "equipment", "../../testdata/equipment.rst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "older than the required 8.1.0")
}

func TestImportCmd_UnknownCategory(t *testing.T) {
	sim := testutil.NewRenga()

	_, err := run(t, sim, "import", "furniture", "../../testdata/equipment.rst")
	require.Error(t, err)
	assert.Zero(t, sim.Instances())
}

func TestEntitiesCmd(t *testing.T) {
	path := filepath.Join(t.TempDir(), "house.rnp")
	require.NoError(t, os.WriteFile(path, []byte("renga project\n"), 0o600))

	out, err := run(t, testutil.NewRenga(), "entities", path)
	require.NoError(t, err)
	assert.Contains(t, out, "UNIQUE ID")
}

func TestConfigFlag(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "rengactl.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("minimum_version: \"9.0.0\"\n"), 0o600))

	out, err := run(t, testutil.NewRenga(), "version", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "supported (>= 9.0.0): false")

	_, err = run(t, testutil.NewRenga(), "version", "--log-format", "xml")
	assert.Error(t, err)
}
