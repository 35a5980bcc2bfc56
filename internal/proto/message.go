package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Inbound event names.
const (
	InboundRegister         = "register"
	InboundLogin            = "login"
	InboundVerifyToken      = "verify_token"
	InboundNewUserConnected = "new_user_connected"
	InboundGroupCreation    = "group_creation"
	InboundTyping           = "typing"
	InboundSendMessage      = "send_message"
	InboundLoadHome         = "load_home"
	InboundLoadChats        = "load_chats"
	InboundLogout           = "logout"
)

// Outbound event names.
const (
	OutboundRegisterSuccess  = "registeration_successful"
	OutboundRegisterFailure  = "registerationFailure"
	OutboundDuplicateEmail   = "duplicate_email"
	OutboundLoginSuccess     = "login_successful"
	OutboundLoginFailure     = "loginFailure"
	OutboundAuthenticated    = "authenticated"
	OutboundUnauthenticated  = "unauthenticated"
	OutboundNotify           = "notify"
	OutboundGreet            = "greet"
	OutboundGroupFailure     = "group_addition_failure"
	OutboundTyping           = "typing"
	OutboundInvalidUser      = "invalid_user"
	OutboundBroadcastMessage = "broadcast_message"
	OutboundLoadUsers        = "load_users"
	OutboundLoadChats        = "load_previous_chats"
	OutboundLogoutSuccess    = "logout_successful"
	OutboundLogoutFailure    = "logout_failure"
	OutboundUserDisconnect   = "user_disconnect"
	OutboundError            = "error"
)

// RegisterData is sent by the client to create an account.
type RegisterData struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginData carries credentials.
type LoginData struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewUserConnectedData announces a user entering the chat. Name may be null.
type NewUserConnectedData struct {
	Name    *string `json:"name"`
	Email   string  `json:"email"`
	Message string  `json:"message"`
}

// GroupCreationData requests a new group.
type GroupCreationData struct {
	Title string `json:"title"`
}

// SendMessageData is a chat message from the client. Time is the client's display time.
type SendMessageData struct {
	Email   string `json:"email"`
	Message string `json:"message"`
	Time    string `json:"time"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Failure is the payload of failure events.
type Failure struct {
	Message string `json:"message"`
}

// BroadcastMessage is a chat message relayed to other clients.
type BroadcastMessage struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// User is a directory entry as listed to clients.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Chat is one history entry.
type Chat struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
