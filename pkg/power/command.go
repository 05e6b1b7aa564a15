package power

import (
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// CommandPoller runs a battery utility and parses its output.
type CommandPoller struct {
	Name  string
	Args  []string
	Parse func(out string) (Reading, error)

	run func(name string, args ...string) ([]byte, error)
}

func runCommand(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// NewPmsetPoller returns a poller backed by `pmset -g batt` (macOS).
func NewPmsetPoller() *CommandPoller {
	return &CommandPoller{
		Name:  "pmset",
		Args:  []string{"-g", "batt"},
		Parse: ParsePmset,
		run:   runCommand,
	}
}

// NewACPIPoller returns a poller backed by `acpi -b` (Linux).
func NewACPIPoller() *CommandPoller {
	return &CommandPoller{
		Name:  "acpi",
		Args:  []string{"-b"},
		Parse: ParseACPI,
		run:   runCommand,
	}
}

func (p *CommandPoller) Read() (Reading, error) {
	logrus.WithFields(logrus.Fields{
		"command": p.Name,
		"args":    p.Args,
	}).Trace("running battery command")

	out, err := p.run(p.Name, p.Args...)
	if err != nil {
		return Reading{}, unavailable(err, "failed to run %s", p.Name)
	}

	r, err := p.Parse(string(out))
	if err != nil {
		return Reading{}, unavailable(err, "failed to parse %s output", p.Name)
	}
	r.Timestamp = nowFunc()

	return r, nil
}

var (
	pmsetPercentRe = regexp.MustCompile(`(\d{1,3})%`)
	acpiLineRe     = regexp.MustCompile(`Battery \d+: ([^,]+), (\d{1,3})%`)
)

// ParsePmset parses the output of `pmset -g batt`:
//
//	Now drawing from 'AC Power'
//	 -InternalBattery-0 (id=4653155)	95%; charging; 0:31 remaining present: true
func ParsePmset(out string) (Reading, error) {
	m := pmsetPercentRe.FindStringSubmatch(out)
	if m == nil {
		return Reading{}, pkgerrors.Errorf("no percentage in %q", strings.TrimSpace(out))
	}
	pct, err := strconv.Atoi(m[1])
	if err != nil {
		return Reading{}, pkgerrors.Wrapf(err, "invalid percentage %q", m[1])
	}

	return Reading{
		Percentage: clampPercentage(pct),
		Charging:   strings.Contains(out, "'AC Power'"),
	}, nil
}

// ParseACPI parses the output of `acpi -b`. Only the first battery is used.
//
//	Battery 0: Charging, 95%, 00:12:00 until charged
func ParseACPI(out string) (Reading, error) {
	m := acpiLineRe.FindStringSubmatch(out)
	if m == nil {
		return Reading{}, pkgerrors.Errorf("no battery line in %q", strings.TrimSpace(out))
	}
	pct, err := strconv.Atoi(m[2])
	if err != nil {
		return Reading{}, pkgerrors.Wrapf(err, "invalid percentage %q", m[2])
	}

	// "Not charging" and "Unknown" show up on the charger when a charge
	// threshold holds the battery, so only "Discharging" means unplugged.
	state := strings.TrimSpace(m[1])

	return Reading{
		Percentage: clampPercentage(pct),
		Charging:   !strings.EqualFold(state, "Discharging"),
	}, nil
}
