package llm

// ErrorKind classifies a failed completion call.
type ErrorKind int

const (
	// KindTimeout means the call did not complete within the deadline.
	KindTimeout ErrorKind = iota
	// KindTransport covers connection errors and non-2xx responses.
	KindTransport
	// KindMalformed means a 2xx response carried no completion choice.
	KindMalformed
	// KindUnknown is any other failure in request or response handling.
	KindUnknown
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// Error is the classified outcome of a failed Ask. Message is already
// user-presentable; the bot layer sends it back as a plain reply, so the
// transport never has to branch on failure shape. Kind exists for logs and
// tests.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }
