package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister creates a new identity.
	CommandRegister CommandKind = iota
	// CommandLogin exchanges credentials for a session token.
	CommandLogin
	// CommandVerifyToken authenticates the session with a token.
	CommandVerifyToken
	// CommandAnnounceJoin records and announces that a user entered the chat.
	CommandAnnounceJoin
	// CommandCreateGroup validates a group creation request.
	CommandCreateGroup
	// CommandTyping tells the other sessions the user is typing.
	CommandTyping
	// CommandSendMessage persists and broadcasts a chat message.
	CommandSendMessage
	// CommandLoadHome requests the user list.
	CommandLoadHome
	// CommandLoadChats requests the chat history.
	CommandLoadChats
	// CommandLogout announces that a user left.
	CommandLogout
)

// Command represents an action requested by a client.
// Only the fields relevant to Kind are set.
type Command struct {
	Kind CommandKind

	// Name is nil when the client sent no display name.
	Name            *string
	Email           string
	Password        string
	ConfirmPassword string
	Text            string
	Time            string
	Token           string
	Title           string
}
