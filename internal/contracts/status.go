package contracts

// Status classifies a record or the whole portfolio.
type Status string

const (
	StatusOK       Status = "OK"
	StatusWarning  Status = "WARNING"
	StatusCritical Status = "CRITICAL"
)

// severity ranks statuses for max-severity reduction.
var severity = map[Status]int{
	StatusOK:       0,
	StatusWarning:  1,
	StatusCritical: 2,
}

// Severity returns the numeric rank of the status (OK < WARNING < CRITICAL).
func (s Status) Severity() int {
	return severity[s]
}

// Worst returns the most severe of the given statuses.
// With no arguments it returns StatusOK.
func Worst(statuses ...Status) Status {
	worst := StatusOK
	for _, s := range statuses {
		if s.Severity() > worst.Severity() {
			worst = s
		}
	}
	return worst
}
