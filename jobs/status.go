package jobs

type Status int

const (
	Unknown Status = iota
	Init
	Accepted
	QueueFull
	Error
	Complete
)

func (s Status) String() string {
	switch s {
	case Init:
		return "INIT"
	case Accepted:
		return "ACCEPTED"
	case QueueFull:
		return "QUEUE_FULL"
	case Error:
		return "ERROR"
	case Complete:
		return "COMPLETE"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}
