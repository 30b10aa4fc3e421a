package domain

// WebSocket message types from client.
const (
	MsgTypeJoin      = "join"
	MsgTypeOffer     = "offer"
	MsgTypeAnswer    = "answer"
	MsgTypeCandidate = "candidate"
)

// WebSocket message types to client.
const (
	MsgTypeJoined = "joined"
	MsgTypeReady  = "ready"
	MsgTypeLeave  = "leave"
	MsgTypeError  = "error"
)

// Envelope is the part of every frame the broker interprets. Handshake
// payloads (SDP, ICE candidates) ride alongside these fields and are
// forwarded verbatim without ever being unmarshalled.
type Envelope struct {
	Type string `json:"type"`
	Room string `json:"room,omitempty"`
}

// ErrorMessage is sent when a join is rejected.
type ErrorMessage struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes
const (
	ErrCodeRoomFull = "ROOM_FULL"
)

// NewErrorMessage creates a new error message.
func NewErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
