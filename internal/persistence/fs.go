package persistence

import (
	"os"
	"path/filepath"
	"time"

	"github.com/MKhiriev/autoenv/internal/utils"
)

// OSFileSystem is the default FileSystem. Writes go to a uniquely named
// temporary file next to the target which is then renamed over it; readers
// see either the old or the new content.
type OSFileSystem struct {
	names *utils.UUIDGenerator
	perm  os.FileMode
}

// NewOSFileSystem returns an OSFileSystem creating files with mode 0644.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{
		names: utils.NewUUIDGenerator(),
		perm:  0o644,
	}
}

func (f *OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (f *OSFileSystem) WriteFile(name string, data []byte) error {
	tmp := filepath.Join(filepath.Dir(name), f.names.TempName(filepath.Base(name)))

	if err := os.WriteFile(tmp, data, f.perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, name); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns a Clock backed by time.AfterFunc.
func SystemClock() Clock {
	return systemClock{}
}
