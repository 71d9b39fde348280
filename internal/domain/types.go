package domain

// UnknownAuthor is the author printed when a payload is not a structured receipt.
const UnknownAuthor = "Unknown"

// RawMessage is one publish delivered by the bus. It is consumed once and
// never retained.
type RawMessage struct {
	Topic   string
	Payload []byte
}

// Receipt is the author/message pair rendered onto one printed slip.
type Receipt struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

// Justification selects ESC/POS text alignment.
type Justification byte

const (
	JustifyLeft Justification = iota
	JustifyCenter
	JustifyRight
)

func (j Justification) String() string {
	switch j {
	case JustifyLeft:
		return "left"
	case JustifyCenter:
		return "center"
	case JustifyRight:
		return "right"
	default:
		return "unknown"
	}
}
