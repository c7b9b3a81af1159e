package output

import (
	"fmt"
	"path/filepath"

	"github.com/bitrise-io/go-utils/fileutil"
	"github.com/bitrise-io/go-utils/pathutil"
)

func saveRawOutputToLogFile(name, rawOutput string) (string, error) {
	tmpDir, err := pathutil.NormalizedOSTempDirPath("driver-test-output")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir, error: %s", err)
	}
	logPth := filepath.Join(tmpDir, name+".log")
	if err := fileutil.WriteStringToFile(logPth, rawOutput); err != nil {
		return "", fmt.Errorf("failed to write test output to file, error: %s", err)
	}

	return logPth, nil
}
