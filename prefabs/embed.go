package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Dir is where prefabs are looked up on disk before falling back to the
// copies compiled into the binary.
const Dir = "prefabs"

//go:embed *.yaml scripts/*.tengo
var PrefabsFS embed.FS

// overlay resolves a slash path against a directory on disk first and an
// embedded tree second, so tuning can be edited without a rebuild.
type overlay struct {
	dir  string
	fsys fs.FS
}

func (o overlay) read(name string) ([]byte, error) {
	if name == "" {
		return nil, fs.ErrNotExist
	}
	data, err := os.ReadFile(filepath.Join(o.dir, filepath.FromSlash(name)))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return fs.ReadFile(o.fsys, name)
}

var source = overlay{dir: Dir, fsys: PrefabsFS}

// Load reads a prefab yaml by name ("player.yaml" or "prefabs/player.yaml").
func Load(name string) ([]byte, error) {
	return source.read(cleanPrefabPath(name))
}

// LoadScript reads a tengo script by bare name ("demo") or path.
func LoadScript(name string) ([]byte, error) {
	return source.read(cleanScriptPath(name))
}

func cleanPrefabPath(p string) string {
	if p == "" {
		return ""
	}
	return strings.TrimPrefix(filepath.ToSlash(p), Dir+"/")
}

func cleanScriptPath(p string) string {
	if p == "" {
		return ""
	}
	s := strings.TrimPrefix(cleanPrefabPath(p), "scripts/")
	if path.Ext(s) != ".tengo" {
		s += ".tengo"
	}
	return path.Join("scripts", s)
}
