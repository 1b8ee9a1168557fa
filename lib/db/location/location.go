// Package location resolves logical store names to medium-specific
// locations. File-based media get a directory plus filename (created on
// demand); for non-file media the logical name itself is the location.
package location

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/result"
)

// DefaultName is the logical store name used when the caller supplies none.
const DefaultName = "local_database"

// Location is the opaque target handed to a backend's open call.
type Location struct {
	Name string // logical store name
	Path string // filesystem path for file-based media, empty otherwise
}

// String returns the medium-facing identifier of the location.
func (l Location) String() string {
	if l.Path != "" {
		return l.Path
	}
	return l.Name
}

// Validate rejects empty locations.
func Validate(loc Location) result.Result[Location] {
	if loc.Name == "" && loc.Path == "" {
		return result.Err[Location](db.ValidationError("location must not be empty", ""))
	}
	return result.Ok(loc)
}

// --------------------------------------------------------------------------
// Resolver Interface
// --------------------------------------------------------------------------

// Resolver maps a logical store name to a Location for one medium.
type Resolver interface {
	// Default returns a stable location for the default store name.
	Default() result.Result[Location]
	// Custom resolves an explicit store name, validating it first.
	Custom(name string) result.Result[Location]
}

// --------------------------------------------------------------------------
// File Resolver
// --------------------------------------------------------------------------

// FileResolver resolves names for file-based media. It composes
// BaseDir/<name>.db and ensures BaseDir exists, creating it if absent.
type FileResolver struct {
	BaseDir string
}

// NewFileResolver creates a resolver rooted at baseDir. An empty baseDir
// falls back to <user config dir>/localdb.
func NewFileResolver(baseDir string) FileResolver {
	if baseDir == "" {
		if cfg, err := os.UserConfigDir(); err == nil {
			baseDir = filepath.Join(cfg, "localdb")
		} else {
			baseDir = "localdb"
		}
	}
	return FileResolver{BaseDir: baseDir}
}

func (r FileResolver) Default() result.Result[Location] {
	return r.Custom(DefaultName)
}

func (r FileResolver) Custom(name string) result.Result[Location] {
	if name == "" {
		return result.Err[Location](db.ValidationError("store name must not be empty", ""))
	}
	if err := os.MkdirAll(r.BaseDir, 0o755); err != nil {
		return result.Err[Location](db.InitializationError(
			fmt.Sprintf("failed to create store directory %s", r.BaseDir), err))
	}
	return result.Ok(Location{
		Name: name,
		Path: filepath.Join(r.BaseDir, name+".db"),
	})
}

// --------------------------------------------------------------------------
// Name Resolver
// --------------------------------------------------------------------------

// NameResolver resolves names for media that address stores by logical name
// only (the in-process object store).
type NameResolver struct{}

func (NameResolver) Default() result.Result[Location] {
	return result.Ok(Location{Name: DefaultName})
}

func (NameResolver) Custom(name string) result.Result[Location] {
	if name == "" {
		return result.Err[Location](db.ValidationError("store name must not be empty", ""))
	}
	return result.Ok(Location{Name: name})
}
