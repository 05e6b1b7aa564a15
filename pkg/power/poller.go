package power

import (
	"os/exec"
	"runtime"

	pkgerrors "github.com/pkg/errors"
)

var lookPath = exec.LookPath

// NewPoller returns the Poller for source. SourceAuto picks pmset on macOS,
// acpi on Linux when it is installed, and the system API otherwise.
func NewPoller(source Source) (Poller, error) {
	switch source {
	case SourceAuto, "":
		return NewPoller(detectSource(runtime.GOOS))
	case SourceSystem:
		return NewSystemPoller(), nil
	case SourcePmset:
		return NewPmsetPoller(), nil
	case SourceACPI:
		return NewACPIPoller(), nil
	case SourceSMC:
		return newSMCPoller()
	default:
		return nil, pkgerrors.Errorf("unknown battery source %q", source)
	}
}

func detectSource(goos string) Source {
	switch goos {
	case "darwin":
		return SourcePmset
	case "linux":
		if _, err := lookPath("acpi"); err == nil {
			return SourceACPI
		}
	}
	return SourceSystem
}
