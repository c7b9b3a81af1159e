package fileremover

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/v2/log"
)

// FileRemover ...
type FileRemover interface {
	// Remove deletes a file of the driver checkout, a missing file is not an error.
	Remove(workDir, name string) error
}

type fileRemover struct {
	logger log.Logger
}

// NewFileRemover ...
func NewFileRemover(logger log.Logger) FileRemover {
	return fileRemover{logger: logger}
}

func (r fileRemover) Remove(workDir, name string) error {
	pth := name
	if !filepath.IsAbs(pth) {
		pth = filepath.Join(workDir, name)
	}

	if err := os.Remove(pth); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Debugf("Nothing to remove at %s", pth)
			return nil
		}
		return fmt.Errorf("failed to remove %s: %w", pth, err)
	}

	r.logger.Printf("Removed %s", pth)
	return nil
}
