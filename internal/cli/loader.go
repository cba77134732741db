package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue/token"

	"github.com/roach88/eds/internal/city"
)

// Error codes shared by every command. City validation codes (E1xx) come
// from the city package.
const (
	ErrCodeGeneric      = "E001" // unknown error
	ErrCodeScanError    = "E002" // directory scan error
	ErrCodeNoFiles      = "E003" // no CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // file write error
	ErrCodeReadFailed   = "E008" // file read error
	ErrCodeSnapshot     = "E009" // snapshot decode or encode error
	ErrCodeStorage      = "E010" // database open or query error
	ErrCodeCityField    = "E011" // city field missing or malformed
	ErrCodeScript       = "E012" // script or scenario could not be loaded
	ErrCodeUnknownBuild = "E013" // building id not in the city
)

// LoadResult is a compiled city and the number of CUE files it came from.
type LoadResult struct {
	City      *city.City
	FileCount int
}

// LoadError is a coded city loading failure.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCity loads and compiles the CUE city in dir.
func LoadCity(dir string) (*LoadResult, error) {
	c, n, err := city.LoadDir(dir)
	if err != nil {
		return nil, convertLoadError(err)
	}
	return &LoadResult{City: c, FileCount: n}, nil
}

// convertLoadError maps city load failures to error codes.
func convertLoadError(err error) *LoadError {
	var compileErr *city.CompileError
	if errors.As(err, &compileErr) {
		code := ErrCodeCityField
		if compileErr.Field == "cue" {
			code = ErrCodeBuildFailed
		}
		return &LoadError{Code: code, Message: compileErr.Message, Pos: compileErr.Pos}
	}

	code := ErrCodeGeneric
	switch {
	case errors.Is(err, city.ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, city.ErrScan):
		code = ErrCodeScanError
	case errors.Is(err, city.ErrNoFiles):
		code = ErrCodeNoFiles
	case errors.Is(err, city.ErrLoadFailed):
		code = ErrCodeLoadFailed
	case errors.Is(err, city.ErrBuildFailed):
		code = ErrCodeBuildFailed
	}
	return &LoadError{Code: code, Message: err.Error()}
}

// loadCityOrFail loads dir and reports a failure through f.
func loadCityOrFail(f *OutputFormatter, dir string) (*LoadResult, error) {
	res, err := LoadCity(dir)
	if err != nil {
		var loadErr *LoadError
		errors.As(err, &loadErr)
		msg := loadErr.Message
		if loadErr.Pos.IsValid() {
			msg = fmt.Sprintf("%s:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), msg)
		}
		return nil, f.fail(ExitCommandError, loadErr.Code, msg)
	}
	f.VerboseLog("Loaded %d CUE file(s) from %s", res.FileCount, dir)
	return res, nil
}
