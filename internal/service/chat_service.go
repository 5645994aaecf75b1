package service

import (
	"context"
	"strings"
	"time"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/internal/repository"
	"github.com/theline-social/theline/pkg/apperr"
)

// ConversationDTO is one row of the conversation list: the peer, the last
// message if any, and how many messages the viewer has not seen.
type ConversationDTO struct {
	ID          uint           `json:"id"`
	Peer        PeerDTO        `json:"peer"`
	LastMessage *model.Message `json:"lastMessage,omitempty"`
	UnseenCount int64          `json:"unseenCount"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type PeerDTO struct {
	ID     uint   `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Image  string `json:"image"`
}

type ChatService interface {
	// StartConversation resolves the peer by handle and returns the existing
	// or freshly created conversation between the two users.
	StartConversation(ctx context.Context, userID uint, peerHandle string) (*ConversationDTO, error)
	List(ctx context.Context, userID uint, page, limit int) ([]ConversationDTO, error)
	Messages(ctx context.Context, userID, conversationID uint, page, limit int) ([]model.Message, error)

	// Open flags the user as viewing and marks their unseen messages seen.
	Open(ctx context.Context, userID, conversationID uint) error
	Leave(ctx context.Context, userID, conversationID uint) error

	// Send persists the message, relays it to the peer's live sessions and
	// marks it seen immediately when the peer has the conversation open.
	Send(ctx context.Context, userID, conversationID uint, text string) (*model.Message, error)
}

type chatService struct {
	chats    repository.ChatRepository
	users    repository.UserRepository
	rel      repository.RelationshipRepository
	pusher   Pusher
	notifier NotificationService
}

func NewChatService(
	chats repository.ChatRepository,
	users repository.UserRepository,
	rel repository.RelationshipRepository,
	pusher Pusher,
	notifier NotificationService,
) ChatService {
	return &chatService{chats: chats, users: users, rel: rel, pusher: pusher, notifier: notifier}
}

// participant loads the conversation and rejects everyone but its two users.
func (s *chatService) participant(ctx context.Context, userID, conversationID uint) (*model.Conversation, error) {
	conv, err := s.chats.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv.UserAID != userID && conv.UserBID != userID {
		return nil, apperr.New(apperr.Forbidden, "not a participant")
	}
	return conv, nil
}

func (s *chatService) StartConversation(ctx context.Context, userID uint, peerHandle string) (*ConversationDTO, error) {
	peer, err := s.users.GetByHandle(ctx, peerHandle)
	if err != nil {
		return nil, err
	}
	if peer.ID == userID {
		return nil, apperr.New(apperr.Invalid, "cannot message yourself")
	}
	for _, pair := range [][2]uint{{userID, peer.ID}, {peer.ID, userID}} {
		blocked, err := s.rel.IsBlocking(ctx, pair[0], pair[1])
		if err != nil {
			return nil, err
		}
		if blocked {
			return nil, apperr.New(apperr.Forbidden, "messaging is not available between these users")
		}
	}
	conv, err := s.chats.GetOrCreate(ctx, userID, peer.ID)
	if err != nil {
		return nil, err
	}
	dtos, err := s.decorate(ctx, userID, []model.Conversation{*conv})
	if err != nil {
		return nil, err
	}
	return &dtos[0], nil
}

func (s *chatService) List(ctx context.Context, userID uint, page, limit int) ([]ConversationDTO, error) {
	page, limit = clampPage(page, limit)
	convs, err := s.chats.ForUser(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, userID, convs)
}

// decorate attaches peers, last messages and unseen counts in three batched
// loads.
func (s *chatService) decorate(ctx context.Context, userID uint, convs []model.Conversation) ([]ConversationDTO, error) {
	ids := make([]uint, 0, len(convs))
	peerIDs := make([]uint, 0, len(convs))
	for _, c := range convs {
		ids = append(ids, c.ID)
		peerIDs = append(peerIDs, c.Peer(userID))
	}
	peers, err := s.users.GetByIDs(ctx, peerIDs)
	if err != nil {
		return nil, err
	}
	peerByID := make(map[uint]model.User, len(peers))
	for _, p := range peers {
		peerByID[p.ID] = p
	}
	last, err := s.chats.LastMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	unseen, err := s.chats.UnseenCounts(ctx, ids, userID)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationDTO, 0, len(convs))
	for _, c := range convs {
		peer := peerByID[c.Peer(userID)]
		dto := ConversationDTO{
			ID: c.ID,
			Peer: PeerDTO{
				ID:     peer.ID,
				Handle: peer.Handle,
				Name:   peer.Name,
				Image:  peer.AvatarURL,
			},
			UnseenCount: unseen[c.ID],
			UpdatedAt:   c.UpdatedAt,
		}
		if m, ok := last[c.ID]; ok {
			msg := m
			dto.LastMessage = &msg
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *chatService) Messages(ctx context.Context, userID, conversationID uint, page, limit int) ([]model.Message, error) {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	page, limit = clampPage(page, limit)
	return s.chats.Messages(ctx, conversationID, (page-1)*limit, limit)
}

func (s *chatService) Open(ctx context.Context, userID, conversationID uint) error {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return err
	}
	if err := s.chats.SetViewing(ctx, conversationID, userID, true); err != nil {
		return err
	}
	return s.chats.MarkSeen(ctx, conversationID, userID)
}

func (s *chatService) Leave(ctx context.Context, userID, conversationID uint) error {
	if _, err := s.participant(ctx, userID, conversationID); err != nil {
		return err
	}
	return s.chats.SetViewing(ctx, conversationID, userID, false)
}

func (s *chatService) Send(ctx context.Context, userID, conversationID uint, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperr.New(apperr.Invalid, "empty message")
	}
	conv, err := s.participant(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	peerID := conv.Peer(userID)
	msg := &model.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		ReceiverID:     peerID,
		Text:           text,
		IsSeen:         conv.ViewingBy(peerID),
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	if s.pusher != nil {
		s.pusher.Push(peerID, "newMessage", msg)
	}
	// a peer staring at the conversation needs no notification row
	if !conv.ViewingBy(peerID) {
		s.notifier.Enqueue(userID, peerID, model.NotificationMessage, map[string]any{
			"conversationId": conversationID,
		})
	}
	return msg, nil
}
