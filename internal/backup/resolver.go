package backup

import (
	"fmt"
	"time"
)

// Target identifies what gets snapshotted: either every indice in the
// cluster or one specific indice. A tagged value avoids overloading a plain
// string with the "all indices" meaning.
type Target struct {
	name string
	all  bool
}

// AllIndices returns the target covering every indice in the cluster
func AllIndices() Target {
	return Target{name: "_all", all: true}
}

// Indice returns the target for a single named indice
func Indice(name string) Target {
	return Target{name: name}
}

// All reports whether the target covers every indice
func (t Target) All() bool { return t.all }

// Name returns the cluster-side name of the target ("_all" for all indices)
func (t Target) Name() string { return t.name }

// timeIndiceName computes the concrete name of the time-rotated indice that
// lies ago rotation periods before now. The configured indice string is used
// verbatim as the name prefix. Weekly names use ISO 8601 week numbering, so
// week boundaries follow the Thursday rule rather than calendar weeks.
func timeIndiceName(prefix string, rotation Rotation, splitter string, ago int, t time.Time) string {
	switch rotation {
	case RotationDaily:
		d := t.AddDate(0, 0, -ago)
		return fmt.Sprintf("%s%04d%s%02d%s%02d", prefix, d.Year(), splitter, int(d.Month()), splitter, d.Day())
	case RotationWeekly:
		year, week := t.AddDate(0, 0, -7*ago).ISOWeek()
		return fmt.Sprintf("%s%04d%s%02d", prefix, year, splitter, week)
	case RotationMonthly:
		// Month arithmetic on the year/month pair directly; AddDate would
		// normalize end-of-month dates into the wrong month.
		months := t.Year()*12 + int(t.Month()) - 1 - ago
		return fmt.Sprintf("%s%04d%s%02d", prefix, months/12, splitter, months%12+1)
	}
	return prefix
}
