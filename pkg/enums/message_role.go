package enums

// MessageRole identifies the author of a chat message.
type MessageRole string

const (
	MessageRoleUser MessageRole = "user"
	MessageRoleBot  MessageRole = "bot"
)

// String implements fmt.Stringer.
func (r MessageRole) String() string {
	return string(r)
}
