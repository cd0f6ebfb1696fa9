package purchase

// Kind is the variant of a Result.
type Kind int

const (
	// KindPaid means the pattern was bought
	KindPaid Kind = iota + 1
	// KindFailed means the attempt failed and should be surfaced as an error
	KindFailed
	// KindCancelled means the attempt was abandoned or is indeterminate
	KindCancelled
	// KindRejected means the attempt was refused before it began
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindPaid:
		return "paid"
	case KindFailed:
		return "failed"
	case KindCancelled:
		return "cancelled"
	case KindRejected:
		return "rejected"
	}

	return "unknown"
}

// Result is the single terminal outcome of one unlock attempt. The zero
// value is not a valid result; use the constructors.
type Result struct {
	err       error
	patternID string
	kind      Kind
}

// Paid returns a successful result for patternID.
func Paid(patternID string) Result {
	return Result{kind: KindPaid, patternID: patternID}
}

// Failed returns a failed result caused by err.
func Failed(patternID string, err error) Result {
	return Result{kind: KindFailed, patternID: patternID, err: err}
}

// Cancelled returns an informational result for an abandoned payment.
func Cancelled(patternID string, err error) Result {
	return Result{kind: KindCancelled, patternID: patternID, err: err}
}

// Rejected returns a result for an attempt that never started.
func Rejected(patternID string, err error) Result {
	return Result{kind: KindRejected, patternID: patternID, err: err}
}

func (r Result) Kind() Kind {
	return r.kind
}

// PatternID is the pattern the attempt was for.
func (r Result) PatternID() string {
	return r.patternID
}

// Paid reports whether the pattern was bought.
func (r Result) Paid() bool {
	return r.kind == KindPaid
}

// Err returns the reason the pattern was not bought, or nil when it was.
func (r Result) Err() error {
	return r.err
}
