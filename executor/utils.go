package executor

import (
	"github.com/bitrise-io/go-utils/colorstring"
	"github.com/bitrise-io/go-utils/stringutil"
	"github.com/bitrise-io/go-utils/v2/log"
)

func printLastLinesOfLog(logger log.Logger, rawOutput string, isRunSuccess bool) {
	if rawOutput == "" {
		return
	}

	const lastLines = "Last lines of the test log:"
	if !isRunSuccess {
		logger.Errorf(lastLines)
	} else {
		logger.Infof(lastLines)
	}

	logger.Printf("%s", stringutil.LastNLines(rawOutput, 20))

	if !isRunSuccess {
		logger.Warnf("If you can't find the reason of the error in the log, please check the full test output.")
		logger.Printf("%s", colorstring.Magenta("Result files of the run are collected into the results directory even if the command failed."))
	}
}
