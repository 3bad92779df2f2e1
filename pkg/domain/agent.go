package domain

// AgentRequest is the external input: a question in natural language.
type AgentRequest struct {
	Request string `json:"request" mapstructure:"request"`
}

// ResponseType distinguishes message frames from terminal error frames.
type ResponseType string

const (
	ResponseTypeMessage ResponseType = "message"
	ResponseTypeError   ResponseType = "error"
)

// EntitySystem is the entity reported by error frames.
const EntitySystem = "system"

// AgentMessage is the payload of a frame.
type AgentMessage struct {
	Entity  string `json:"entity"`
	Message string `json:"message"`
}

// AgentResponse is one frame of output. Blocking calls return exactly one,
// streaming calls return a sequence ending naturally or with one error frame.
type AgentResponse struct {
	Type   ResponseType `json:"type"`
	Detail AgentMessage `json:"detail"`
}

// NewMessageResponse builds a message frame for msg.
func NewMessageResponse(msg Message) AgentResponse {
	return AgentResponse{
		Type: ResponseTypeMessage,
		Detail: AgentMessage{
			Entity:  string(msg.Role),
			Message: msg.Content,
		},
	}
}

// NewErrorResponse builds a terminal error frame.
func NewErrorResponse(description string) AgentResponse {
	return AgentResponse{
		Type: ResponseTypeError,
		Detail: AgentMessage{
			Entity:  EntitySystem,
			Message: description,
		},
	}
}

// IsError reports whether the frame is a terminal error frame.
func (r AgentResponse) IsError() bool {
	return r.Type == ResponseTypeError
}
