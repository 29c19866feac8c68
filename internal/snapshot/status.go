package snapshot

// DecodeStatus is the outcome of attempting QR decoding against an image
// snapshot. It travels alongside the published snapshot and is display-only:
// a decode failure never blocks publication of the underlying image.
type DecodeStatus struct {
	Outcome DecodeOutcome
	Message string // non-empty only for DecodeErr
}

type DecodeOutcome int

const (
	DecodeNotAttempted DecodeOutcome = iota
	DecodeFound
	DecodeNotFound
	DecodeErr
)

func (o DecodeOutcome) String() string {
	switch o {
	case DecodeFound:
		return "found"
	case DecodeNotFound:
		return "not found"
	case DecodeErr:
		return "error"
	default:
		return "not attempted"
	}
}

// NotAttempted is the status for text and empty snapshots.
func NotAttempted() DecodeStatus { return DecodeStatus{Outcome: DecodeNotAttempted} }

// Found is the status for an image whose QR payload decoded successfully.
func Found() DecodeStatus { return DecodeStatus{Outcome: DecodeFound} }

// NotFound is the status for an image containing no decodable QR code.
func NotFound() DecodeStatus { return DecodeStatus{Outcome: DecodeNotFound} }

// Error is the status for a failed decode attempt.
func Error(err error) DecodeStatus {
	return DecodeStatus{Outcome: DecodeErr, Message: err.Error()}
}
