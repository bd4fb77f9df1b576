package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, ".text", c.Nmadd.TextSection)
	assert.Equal(t, []string{".localalias"}, c.Nmadd.AliasSuffix)
	assert.False(t, c.Nmadd.JSON)
	assert.False(t, c.Verbose)
}

func TestLoadValues(t *testing.T) {
	v := viper.New()
	v.Set("verbose", true)
	v.Set("nmadd.text-section", "CODE")
	v.Set("nmadd.alias-suffix", []string{".localalias", ".part"})
	v.Set("nmadd.json", true)
	v.Set("syms.demangle", true)

	c, err := Load(v)
	require.NoError(t, err)
	assert.True(t, c.Verbose)
	assert.Equal(t, "CODE", c.Nmadd.TextSection)
	assert.Equal(t, []string{".localalias", ".part"}, c.Nmadd.AliasSuffix)
	assert.True(t, c.Nmadd.JSON)
	assert.True(t, c.Syms.Demangle)
	assert.False(t, c.Syms.All)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nmadd:\n  text-section: .code\n  alias-suffix:\n    - .lalias\n"), 0o644))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ".code", c.Nmadd.TextSection)
	assert.Equal(t, []string{".lalias"}, c.Nmadd.AliasSuffix)
}

func TestLoadInvalid(t *testing.T) {
	v := viper.New()
	v.Set("nmadd.text-section", ".te xt")
	v.Set("nmadd.alias-suffix", []string{".localalias", "", " "})

	_, err := Load(v)
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 3)
	assert.ErrorContains(t, err, "whitespace")
	assert.ErrorContains(t, err, "alias-suffix[1] is empty")
}

func TestLoadEmptyAliasSuffix(t *testing.T) {
	v := viper.New()
	v.Set("nmadd.alias-suffix", []string{})

	c, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{".localalias"}, c.Nmadd.AliasSuffix)
}
