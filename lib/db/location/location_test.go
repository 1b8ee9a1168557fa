package location

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/localdb/localdb/lib/db"
)

func TestFileResolverCreatesDirectory(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "stores")
	r := NewFileResolver(base)

	loc, err := r.Custom("sessions").Get()
	require.NoError(t, err)
	assert.Equal(t, "sessions", loc.Name)
	assert.Equal(t, filepath.Join(base, "sessions.db"), loc.Path)

	info, statErr := os.Stat(base)
	require.NoError(t, statErr)
	assert.True(t, info.IsDir())
}

func TestFileResolverDefault(t *testing.T) {
	r := NewFileResolver(t.TempDir())

	loc, err := r.Default().Get()
	require.NoError(t, err)
	assert.Equal(t, DefaultName, loc.Name)
	assert.Equal(t, DefaultName+".db", filepath.Base(loc.Path))
}

func TestFileResolverRejectsEmptyName(t *testing.T) {
	r := NewFileResolver(t.TempDir())

	_, err := r.Custom("").Get()
	require.Error(t, err)
	assert.Equal(t, db.KindValidation, db.KindOf(err))
}

func TestFileResolverInitializationFailure(t *testing.T) {
	// a regular file where the directory should go makes MkdirAll fail
	base := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(base, []byte("x"), 0o644))

	r := NewFileResolver(filepath.Join(base, "sub"))
	_, err := r.Custom("sessions").Get()
	require.Error(t, err)
	assert.Equal(t, db.KindInitialization, db.KindOf(err))
}

func TestNameResolver(t *testing.T) {
	r := NameResolver{}

	loc, err := r.Custom("cache").Get()
	require.NoError(t, err)
	assert.Equal(t, "cache", loc.Name)
	assert.Empty(t, loc.Path)
	assert.Equal(t, "cache", loc.String())

	_, err = r.Custom("").Get()
	assert.Equal(t, db.KindValidation, db.KindOf(err))
}

func TestValidate(t *testing.T) {
	_, err := Validate(Location{}).Get()
	assert.Equal(t, db.KindValidation, db.KindOf(err))

	loc, err := Validate(Location{Name: "x"}).Get()
	require.NoError(t, err)
	assert.Equal(t, "x", loc.Name)
}
