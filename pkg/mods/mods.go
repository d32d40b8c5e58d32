// Package mods resolves the module paths of import statements.
//
// Paths starting with std name the native modules of the standard library.
// Other paths name files: "a::b" is the file a/b.iok, searched for in the
// directory of the importing file and then in each library directory.
package mods

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"src.iok.sh/pkg/eval"
	"src.iok.sh/pkg/logutil"
	"src.iok.sh/pkg/mods/math"
	"src.iok.sh/pkg/mods/str"
	"src.iok.sh/pkg/parse"
)

var logger = logutil.GetLogger("[mods] ")

// Extension of module files.
const Ext = ".iok"

var natives = map[string]*eval.Module{
	"std::math": math.Module,
	"std::str":  str.Module,
}

// NativeNames returns the paths of all native modules.
func NativeNames() []string {
	return []string{"std::math", "std::str"}
}

// ErrImportCycle is wrapped by the error returned when a file module imports
// itself, directly or indirectly.
var ErrImportCycle = errors.New("import cycle")

// Resolver implements eval.Resolver. File modules are evaluated once and
// cached by their absolute path.
type Resolver struct {
	libPaths []string

	mu      sync.Mutex
	cache   map[string]*eval.Module
	loading map[string]bool
}

var _ eval.Resolver = (*Resolver)(nil)

// NewResolver returns a Resolver that searches the given library directories
// after the directory of the importing file.
func NewResolver(libPaths ...string) *Resolver {
	return &Resolver{libPaths: libPaths,
		cache: map[string]*eval.Module{}, loading: map[string]bool{}}
}

// Resolve implements eval.Resolver.
func (r *Resolver) Resolve(ctx eval.ResolveCtx, path []string) (*eval.Module, error) {
	name := strings.Join(path, "::")
	if mod, ok := natives[name]; ok {
		return mod, nil
	}
	if path[0] == "std" {
		return nil, fmt.Errorf("%s: %w", name, eval.ErrNoModule)
	}
	file, ok := r.find(ctx.From, path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, eval.ErrNoModule)
	}
	return r.load(ctx, file)
}

// Returns the directories to search for a file module imported from src.
func (r *Resolver) searchDirs(from parse.Source) []string {
	var dirs []string
	if from.IsFile {
		dirs = append(dirs, filepath.Dir(from.Name))
	}
	return append(dirs, r.libPaths...)
}

func (r *Resolver) find(from parse.Source, path []string) (string, bool) {
	rel := filepath.Join(path...) + Ext
	for _, dir := range r.searchDirs(from) {
		file := filepath.Join(dir, rel)
		if info, err := os.Stat(file); err == nil && info.Mode().IsRegular() {
			if abs, err := filepath.Abs(file); err == nil {
				file = abs
			}
			return file, true
		}
	}
	return "", false
}

func (r *Resolver) load(ctx eval.ResolveCtx, file string) (*eval.Module, error) {
	r.mu.Lock()
	if mod, ok := r.cache[file]; ok {
		r.mu.Unlock()
		return mod, nil
	}
	if r.loading[file] {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w through %s", ErrImportCycle, file)
	}
	r.loading[file] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.loading, file)
		r.mu.Unlock()
	}()

	code, err := readFileUTF8(file)
	if err != nil {
		return nil, err
	}
	logger.Printf("loading module file %s", file)
	mod, err := ctx.Load(parse.Source{Name: file, Code: code, IsFile: true})
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.cache[file] = mod
	r.mu.Unlock()
	return mod, nil
}

var errSourceNotUTF8 = errors.New("source is not UTF-8")

func readFileUTF8(fname string) (string, error) {
	bytes, err := os.ReadFile(fname)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", fmt.Errorf("%s: %w", fname, errSourceNotUTF8)
	}
	return string(bytes), nil
}
