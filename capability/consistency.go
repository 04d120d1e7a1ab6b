package capability

import (
	"fmt"
	"sort"
)

// Severity ranks a consistency finding.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityNone:
		return "none"
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// ConsistencyReport summarizes gilding consistency over a set of views.
type ConsistencyReport struct {
	Findings []Finding
	Level    Severity
}

// Finding describes a single inconsistency.
type Finding struct {
	Subject     string
	Description string
	Detail      string
	Level       Severity
}

// OK reports whether no findings were raised.
func (r ConsistencyReport) OK() bool {
	return len(r.Findings) == 0
}

// CheckGildings compares cached counts with breakdowns. Subjects are
// caller-chosen labels, typically resource ids. Findings are ordered by subject.
func CheckGildings(views map[string]GildableView) ConsistencyReport {
	report := ConsistencyReport{
		Level: SeverityNone,
	}

	addFinding := func(level Severity, subject, desc, detail string) {
		report.Findings = append(report.Findings, Finding{
			Subject:     subject,
			Description: desc,
			Detail:      detail,
			Level:       level,
		})
		if level > report.Level {
			report.Level = level
		}
	}

	subjects := make([]string, 0, len(views))
	for s := range views {
		subjects = append(subjects, s)
	}
	sort.Strings(subjects)

	for _, subject := range subjects {
		v := views[subject]
		count := int(v.GildCount())

		if v.Gildings().IsEmpty() {
			if count > 0 {
				addFinding(SeverityLow, subject, "Breakdown missing, cached count used",
					fmt.Sprintf("gilded=%d", count))
			}
			continue
		}

		sum := v.Gildings().Sum()
		switch {
		case sum > MaxGildCount:
			addFinding(SeverityHigh, subject, "Breakdown exceeds cached count range",
				fmt.Sprintf("sum=%d max=%d", sum, MaxGildCount))
		case sum != count:
			addFinding(SeverityMedium, subject, "Cached count disagrees with breakdown",
				fmt.Sprintf("gilded=%d sum=%d gildings=%s", count, sum, v.Gildings()))
		}
	}

	return report
}
