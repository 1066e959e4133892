package transport

// Choice is one option of an inline choice prompt.
type Choice struct {
	ID    string
	Label string
}

// Transport is the outbound side of a chat channel. Implementations must
// treat sends as fire-and-forget: a failed delivery is logged by the
// implementation, never surfaced to the coaching logic.
type Transport interface {
	// SendText delivers a text message; markdown enables rich formatting
	// where the channel supports it.
	SendText(chatID int64, text string, markdown bool) error

	// SendImage delivers a PNG with a caption.
	SendImage(chatID int64, png []byte, caption string) error

	// SendChoicePrompt delivers a message with tappable choices.
	SendChoicePrompt(chatID int64, text string, choices []Choice) error
}

// Handler is the inbound side: the coach implements it and transports
// call it for every received message or choice.
type Handler interface {
	OnTextMessage(chatID int64, username, firstName, text string)
	OnChoiceSelected(chatID int64, choiceID string)
}
