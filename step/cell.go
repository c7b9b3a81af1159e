package step

import (
	"fmt"

	"github.com/bitrise-steplib/steps-driver-matrix/junit"
)

// CellState is the progress of one driver tag and test type pair.
type CellState int

// Cell states, in the order a successful cell passes them.
const (
	Init CellState = iota
	BundleResolved
	ClusterReady
	Executed
	Reconciled
	Done
	Failed
)

func (s CellState) String() string {
	switch s {
	case Init:
		return "init"
	case BundleResolved:
		return "bundle-resolved"
	case ClusterReady:
		return "cluster-ready"
	case Executed:
		return "executed"
	case Reconciled:
		return "reconciled"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// CellResult ...
type CellResult struct {
	Tag           string
	DriverVersion string
	TestType      string
	State         CellState
	// Summary is set once the report is reconciled.
	Summary *junit.Summary
	Err     error

	failedIn   CellState
	resultBase string
	driverName string
}

// Failed reports whether the cell could not finish or its tests failed.
func (c CellResult) Failed() bool {
	if c.State == Failed {
		return true
	}
	return c.Summary != nil && c.Summary.Failed()
}

// FailureReason is the failure_reason of the cell metadata.
func (c CellResult) FailureReason() string {
	if c.Err == nil {
		return ""
	}

	return fmt.Sprintf("%s failed in state %s: %s", c.Tag, c.failedIn, c.Err)
}

func (c CellResult) fail(err error) CellResult {
	c.failedIn = c.State
	c.State = Failed
	c.Err = err
	return c
}
