package lifecycle

import (
	"os"
	"path/filepath"
)

// EnsureParentDir creates every missing directory leading to file.
func EnsureParentDir(file string) error {
	dir := filepath.Dir(file)
	if dir == "." || dir == "" || dir == string(filepath.Separator) {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
