package city

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
)

// Load failures, distinguishable with errors.Is.
var (
	ErrNotFound    = errors.New("city directory not found")
	ErrScan        = errors.New("scanning city directory")
	ErrNoFiles     = errors.New("no CUE files")
	ErrLoadFailed  = errors.New("loading CUE files")
	ErrBuildFailed = errors.New("building CUE value")
)

// LoadDir loads the CUE package in dir and compiles its `city` value. It
// returns the number of CUE files found alongside the city.
func LoadDir(dir string) (*City, int, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotFound, dir)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("%w: not a directory: %s", ErrNotFound, dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrScan, err)
	}
	if len(files) == 0 {
		return nil, 0, fmt.Errorf("%w in %s", ErrNoFiles, dir)
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, len(files), fmt.Errorf("%w: no instances", ErrLoadFailed)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, len(files), fmt.Errorf("%w: %v", ErrLoadFailed, inst.Err)
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, len(files), fmt.Errorf("%w: %v", ErrBuildFailed, err)
	}

	c, err := Compile(value.LookupPath(cue.ParsePath("city")))
	return c, len(files), err
}

// CompileSource compiles a single CUE source holding a `city` value.
// filename only labels error positions.
func CompileSource(filename, src string) (*City, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	return Compile(v.LookupPath(cue.ParsePath("city")))
}

// FindCUEFiles walks dir and returns every .cue file path.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
