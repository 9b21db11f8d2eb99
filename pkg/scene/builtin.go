package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin loads one of the scenes shipped with the module: window, triangle,
// quad or cube.
func Builtin(name string) (*Scene, error) {
	f, err := builtinFS.Open(path.Join("builtin", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("scene: unknown built-in %q (have %s)", name, strings.Join(BuiltinNames(), ", "))
	}
	defer f.Close()
	sc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("built-in %s: %w", name, err)
	}
	return sc, nil
}

func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	slices.Sort(names)
	return names
}
