package http

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/lo"

	"github.com/vovakirdan/chatline-server/internal/core"
	"github.com/vovakirdan/chatline-server/internal/proto"
	"github.com/vovakirdan/chatline-server/internal/store"
)

// decodeData unmarshals an inbound payload. A missing or null payload leaves v untouched.
func decodeData(data json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	return json.Unmarshal(trimmed, v)
}

func badRequest(event string, err error) *proto.Error {
	return &proto.Error{Code: core.ErrCodeBadRequest, Message: fmt.Sprintf("invalid %s payload: %v", event, err)}
}

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Event {
	case proto.InboundRegister:
		var reg proto.RegisterData
		if err := decodeData(inbound.Data, &reg); err != nil {
			return nil, badRequest(inbound.Event, err)
		}
		return &core.Command{
			Kind:            core.CommandRegister,
			Name:            &reg.Name,
			Email:           reg.Email,
			Password:        reg.Password,
			ConfirmPassword: reg.ConfirmPassword,
		}, nil
	case proto.InboundLogin:
		var login proto.LoginData
		if err := decodeData(inbound.Data, &login); err != nil {
			return nil, badRequest(inbound.Event, err)
		}
		return &core.Command{Kind: core.CommandLogin, Email: login.Email, Password: login.Password}, nil
	case proto.InboundVerifyToken:
		// A non-string token still gets a verdict: it verifies as empty and fails.
		var token string
		if err := decodeData(inbound.Data, &token); err != nil {
			token = ""
		}
		return &core.Command{Kind: core.CommandVerifyToken, Token: token}, nil
	case proto.InboundNewUserConnected:
		var joined proto.NewUserConnectedData
		if err := decodeData(inbound.Data, &joined); err != nil {
			return nil, badRequest(inbound.Event, err)
		}
		return &core.Command{
			Kind:  core.CommandAnnounceJoin,
			Name:  joined.Name,
			Email: joined.Email,
			Text:  joined.Message,
		}, nil
	case proto.InboundGroupCreation:
		// A payload without a usable title is rejected by the hub as a group failure.
		var group proto.GroupCreationData
		if err := decodeData(inbound.Data, &group); err != nil {
			group = proto.GroupCreationData{}
		}
		return &core.Command{Kind: core.CommandCreateGroup, Title: group.Title}, nil
	case proto.InboundTyping:
		return &core.Command{Kind: core.CommandTyping}, nil
	case proto.InboundSendMessage:
		var msg proto.SendMessageData
		if err := decodeData(inbound.Data, &msg); err != nil {
			return nil, badRequest(inbound.Event, err)
		}
		return &core.Command{
			Kind:  core.CommandSendMessage,
			Email: msg.Email,
			Text:  msg.Message,
			Time:  msg.Time,
		}, nil
	case proto.InboundLoadHome:
		return &core.Command{Kind: core.CommandLoadHome}, nil
	case proto.InboundLoadChats:
		return &core.Command{Kind: core.CommandLoadChats}, nil
	case proto.InboundLogout:
		// A non-string email is an unknown user.
		var email string
		if err := decodeData(inbound.Data, &email); err != nil {
			email = ""
		}
		return &core.Command{Kind: core.CommandLogout, Email: email}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeInvalidMessage, Message: "unknown event type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventRegisterSuccess:
		return proto.Outbound{Event: proto.OutboundRegisterSuccess, Data: event.Name}
	case core.EventRegisterFailure:
		return failureOutbound(proto.OutboundRegisterFailure, event)
	case core.EventDuplicateEmail:
		return failureOutbound(proto.OutboundDuplicateEmail, event)
	case core.EventLoginSuccess:
		return proto.Outbound{Event: proto.OutboundLoginSuccess, Data: event.Token}
	case core.EventLoginFailure:
		return failureOutbound(proto.OutboundLoginFailure, event)
	case core.EventAuthenticated:
		return proto.Outbound{Event: proto.OutboundAuthenticated}
	case core.EventUnauthenticated:
		return proto.Outbound{Event: proto.OutboundUnauthenticated}
	case core.EventNotify:
		return proto.Outbound{Event: proto.OutboundNotify, Data: event.Name}
	case core.EventGreet:
		return proto.Outbound{Event: proto.OutboundGreet, Data: event.Name}
	case core.EventGroupFailure:
		return failureOutbound(proto.OutboundGroupFailure, event)
	case core.EventTyping:
		return proto.Outbound{Event: proto.OutboundTyping}
	case core.EventInvalidUser:
		return failureOutbound(proto.OutboundInvalidUser, event)
	case core.EventBroadcastMessage:
		var line core.ChatLine
		if event.Chat != nil {
			line = *event.Chat
		}
		return proto.Outbound{
			Event: proto.OutboundBroadcastMessage,
			Data: proto.BroadcastMessage{
				Name:      line.Name,
				Message:   line.Message,
				Timestamp: line.Timestamp,
			},
		}
	case core.EventLoadUsers:
		users := lo.Map(event.Users, func(u *store.Identity, _ int) proto.User {
			return proto.User{Name: u.Name, Email: u.Email}
		})
		return proto.Outbound{Event: proto.OutboundLoadUsers, Data: users}
	case core.EventLoadChats:
		return proto.Outbound{Event: proto.OutboundLoadChats, Data: lo.Map(event.Chats, chatFromRecord)}
	case core.EventLogoutSuccess:
		return proto.Outbound{Event: proto.OutboundLogoutSuccess}
	case core.EventLogoutFailure:
		return failureOutbound(proto.OutboundLogoutFailure, event)
	case core.EventUserDisconnect:
		return proto.Outbound{Event: proto.OutboundUserDisconnect, Data: event.Name}
	default:
		return proto.Outbound{Event: proto.OutboundError, Data: proto.Error{Code: "unknown", Message: "unknown event"}}
	}
}

func failureOutbound(name string, event *core.Event) proto.Outbound {
	return proto.Outbound{Event: name, Data: proto.Failure{Message: event.Message}}
}

func chatFromRecord(c *store.ChatRecord, _ int) proto.Chat {
	return proto.Chat{ID: c.ID, Name: c.Name, Email: c.Email, Message: c.Message, Timestamp: c.Timestamp}
}
