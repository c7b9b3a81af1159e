package testartifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bitrise-io/go-utils/command"
	"github.com/bitrise-io/go-utils/v2/log"
)

// ErrNoResults ...
var ErrNoResults = errors.New("no test result files")

// Collector gathers the files a test run left behind.
type Collector interface {
	Collect(fromDir, toDir, prefix string, move bool) ([]string, error)
}

type collector struct {
	logger log.Logger
}

// NewCollector ...
func NewCollector(logger log.Logger) Collector {
	return &collector{logger: logger}
}

// Collect moves (or copies) the regular files of fromDir named prefix.<ext> into toDir
// and returns their new paths.
func (c *collector) Collect(fromDir, toDir, prefix string, move bool) ([]string, error) {
	entries, err := os.ReadDir(fromDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", fromDir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(entry.Name(), prefix+".") {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w like '%s' under %s", ErrNoResults, prefix, fromDir)
	}
	sort.Strings(names)

	if err := os.MkdirAll(toDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", toDir, err)
	}

	var collected []string
	for _, name := range names {
		src := filepath.Join(fromDir, name)
		dst := filepath.Join(toDir, name)

		if move {
			c.logger.Printf("Move from %s to %s", src, dst)
			err = moveFile(src, dst)
		} else {
			c.logger.Printf("Copy from %s to %s", src, dst)
			err = command.CopyFile(src, dst)
		}
		if err != nil {
			return collected, fmt.Errorf("failed to collect %s: %w", src, err)
		}

		collected = append(collected, dst)
	}

	return collected, nil
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	// rename does not work across devices
	if err := command.CopyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}
