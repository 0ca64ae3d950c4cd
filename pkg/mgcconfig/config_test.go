package mgcconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mgcints/mgcints/pkg/mgcchunk"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, "#", cfg.Directive.Prefix)
	require.Equal(t, mgcchunk.Little, cfg.Pointer.Endian())
}

func TestValidateRejectsBadPointerWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pointer.DefaultWidth = 9
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsBadEndian(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pointer.DefaultEndian = "middle"
	require.Error(t, cfg.Validate())
}

func TestLoadAppliesProjectFileOverDefaults(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { require.NoError(t, os.Chdir(wd)) }()
	require.NoError(t, os.Chdir(dir))

	toml := "[directive]\nprefix = \"@\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mgcints.toml"), []byte(toml), 0o644))

	cfg, err := Load(nil)
	require.NoError(t, err)
	require.Equal(t, "@", cfg.Directive.Prefix)
}

func TestLoadOverridesWinOverProjectFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { require.NoError(t, os.Chdir(wd)) }()
	require.NoError(t, os.Chdir(dir))

	tomlSrc := "[directive]\nprefix = \"@\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mgcints.toml"), []byte(tomlSrc), 0o644))

	cfg, err := Load(&Config{Directive: DirectiveConfig{Prefix: "%"}})
	require.NoError(t, err)
	require.Equal(t, "%", cfg.Directive.Prefix)
}

func TestWarnEmitsUpToMaxThenSuppresses(t *testing.T) {
	w := NewWarnings(WarningConfig{MaxPerFormat: 2})

	_, emit1, err1 := w.Warn("non-ascii byte at %d", 5)
	require.NoError(t, err1)
	require.True(t, emit1)

	_, emit2, err2 := w.Warn("non-ascii byte at %d", 6)
	require.NoError(t, err2)
	require.True(t, emit2)

	_, emit3, err3 := w.Warn("non-ascii byte at %d", 7)
	require.NoError(t, err3)
	require.False(t, emit3)
}

func TestWarnStrictConvertsToError(t *testing.T) {
	w := NewWarnings(WarningConfig{Strict: true, MaxPerFormat: 1})
	_, emit, err := w.Warn("non-ascii byte at %d", 5)
	require.Error(t, err)
	require.False(t, emit)
}
