package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/internal"
	"zgony/internal/errors"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func quiet() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func TestResolver_FirstExistingTemplateWins(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b_2020.xlsx"))
	touch(t, filepath.Join(dir, "c_2020.xlsx"))

	r, err := NewResolver(dir, []string{"a_{year}.xlsx", "b_{year}.xlsx", "c_{year}.xlsx"}, quiet())
	require.NoError(t, err)

	path, err := r.Resolve(context.Background(), 2020)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "b_2020.xlsx"), path)
}

func TestResolver_MisspelledVariant(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Zgony wedИug tygodni w Polsce_2021.xlsx"))

	r, err := NewResolver(dir, mortality.DefaultFileTemplates(), quiet())
	require.NoError(t, err)

	path, err := r.Resolve(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, "Zgony wedИug tygodni w Polsce_2021.xlsx", filepath.Base(path))
}

func TestResolver_DecomposedFileName(t *testing.T) {
	dir := t.TempDir()
	decomposed := norm.NFD.String("Zgony ogółem_2019.xlsx")
	require.NotEqual(t, "Zgony ogółem_2019.xlsx", decomposed)
	touch(t, filepath.Join(dir, decomposed))

	r, err := NewResolver(dir, []string{"Zgony ogółem_{year}.xlsx"}, quiet())
	require.NoError(t, err)

	path, err := r.Resolve(context.Background(), 2019)
	require.NoError(t, err)
	assert.Equal(t, decomposed, filepath.Base(path))
}

func TestResolver_NotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a_2020.xlsx"), 0o755))

	r, err := NewResolver(dir, []string{"a_{year}.xlsx"}, quiet())
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), 2020)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrFileNotFound)
	assert.Contains(t, err.Error(), "2020")
	assert.Contains(t, err.Error(), "a_2020.xlsx")
}

func TestResolver_Candidates(t *testing.T) {
	r, err := NewResolver(".", []string{"ó_{year}", "o_{year}"}, quiet())
	require.NoError(t, err)

	got := r.Candidates(2015)
	assert.Equal(t, []string{"ó_2015", norm.NFD.String("ó_2015"), "o_2015"}, got)
}

func TestNewResolver_Validation(t *testing.T) {
	_, err := NewResolver(".", nil, quiet())
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = NewResolver(".", []string{"static.xlsx"}, quiet())
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}
