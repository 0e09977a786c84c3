package tenant

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTenant(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	writeTenant(t, dir, "stratevo.yaml", `
tenant_id: stratevo
tenant_name: Stratevo CRM
solution_keywords:
  - TOTVS Protheus
  - TOTVS RM
vendor_keywords:
  - TOTVS
interest_keywords:
  - gestão empresarial
`)
	writeTenant(t, dir, "olv.yml", `
tenant_id: olv
tenant_name: OLV Internacional
vendor_keywords:
  - OLV
`)
	writeTenant(t, dir, "notes.txt", "ignored")

	r, err := LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []string{"olv", "stratevo"}, r.IDs())

	tctx := r.Get("stratevo")
	require.NotNil(t, tctx)
	assert.Equal(t, "Stratevo CRM", tctx.TenantName)
	assert.Equal(t, []string{"TOTVS Protheus", "TOTVS RM"}, tctx.SolutionKeywords)
	assert.Equal(t, []string{"TOTVS"}, tctx.VendorKeywords)

	assert.Nil(t, r.Get("unknown"))
}

func TestLoadDirMissingDirectory(t *testing.T) {
	r, err := LoadDir(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, 0, r.Len())
}

func TestLoadDirRejectsDuplicateID(t *testing.T) {
	dir := t.TempDir()
	writeTenant(t, dir, "a.yaml", "tenant_id: dup\n")
	writeTenant(t, dir, "b.yaml", "tenant_id: dup\n")

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate tenant id")
}

func TestLoadDirRejectsMissingID(t *testing.T) {
	dir := t.TempDir()
	writeTenant(t, dir, "a.yaml", "tenant_name: No ID\n")

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing tenant_id")
}
