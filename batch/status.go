package batch

// Status is the state of a batch.
type Status string

const (
	Pending             Status = "pending"
	Processing          Status = "processing"
	Completed           Status = "completed"
	CompletedWithErrors Status = "completed_with_errors"
	Failed              Status = "failed"
)

// Done reports whether the status is final.
func (s Status) Done() bool {
	return s == Completed || s == CompletedWithErrors || s == Failed
}

func statusFor(succeeded, failed int) Status {
	switch {
	case failed == 0:
		return Completed
	case succeeded == 0:
		return Failed
	default:
		return CompletedWithErrors
	}
}
