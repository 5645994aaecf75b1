package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/theline-social/theline/internal/model"
	"github.com/theline-social/theline/pkg/apperr"
)

type ChatRepository interface {
	GetOrCreate(ctx context.Context, userA, userB uint) (*model.Conversation, error)
	GetByID(ctx context.Context, id uint) (*model.Conversation, error)
	ForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Conversation, error)

	CreateMessage(ctx context.Context, m *model.Message) error
	Messages(ctx context.Context, conversationID uint, offset, limit int) ([]model.Message, error)
	LastMessages(ctx context.Context, conversationIDs []uint) (map[uint]model.Message, error)
	UnseenCounts(ctx context.Context, conversationIDs []uint, receiverID uint) (map[uint]int64, error)

	SetViewing(ctx context.Context, conversationID, userID uint, viewing bool) error
	MarkSeen(ctx context.Context, conversationID, receiverID uint) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository { return &chatRepository{db: db} }

func (r *chatRepository) GetOrCreate(ctx context.Context, userA, userB uint) (*model.Conversation, error) {
	a, b := model.NormalizePair(userA, userB)
	conv := model.Conversation{UserAID: a, UserBID: b}
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		FirstOrCreate(&conv).Error
	if err != nil {
		// a concurrent creator may have won the unique index; read theirs
		var existing model.Conversation
		if ferr := r.db.WithContext(ctx).
			Where("user_a_id = ? AND user_b_id = ?", a, b).
			First(&existing).Error; ferr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) GetByID(ctx context.Context, id uint) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.WithContext(ctx).Preload("UserA").Preload("UserB").First(&conv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "conversation not found")
		}
		return nil, err
	}
	return &conv, nil
}

func (r *chatRepository) ForUser(ctx context.Context, userID uint, offset, limit int) ([]model.Conversation, error) {
	var convs []model.Conversation
	err := r.db.WithContext(ctx).
		Preload("UserA").Preload("UserB").
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&convs).Error
	return convs, err
}

func (r *chatRepository) CreateMessage(ctx context.Context, m *model.Message) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		// bump the conversation so it sorts to the top of the list
		return tx.Model(&model.Conversation{}).
			Where("id = ?", m.ConversationID).
			Update("updated_at", m.CreatedAt).Error
	})
}

func (r *chatRepository) Messages(ctx context.Context, conversationID uint, offset, limit int) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&msgs).Error
	return msgs, err
}

func (r *chatRepository) LastMessages(ctx context.Context, conversationIDs []uint) (map[uint]model.Message, error) {
	out := make(map[uint]model.Message, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id IN ?", conversationIDs).
		Order("created_at ASC").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	// ascending order means the last write per conversation wins
	for _, m := range msgs {
		out[m.ConversationID] = m
	}
	return out, nil
}

func (r *chatRepository) UnseenCounts(ctx context.Context, conversationIDs []uint, receiverID uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(conversationIDs))
	if len(conversationIDs) == 0 {
		return out, nil
	}
	var rows []idCount
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("conversation_id AS id, COUNT(*) AS cnt").
		Where("conversation_id IN ? AND receiver_id = ? AND is_seen = ?", conversationIDs, receiverID, false).
		Group("conversation_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.ID] = row.Cnt
	}
	return out, nil
}

func (r *chatRepository) SetViewing(ctx context.Context, conversationID, userID uint, viewing bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv model.Conversation
		if err := tx.First(&conv, conversationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.NotFound, "conversation not found")
			}
			return err
		}
		col := "a_viewing"
		if conv.UserBID == userID {
			col = "b_viewing"
		} else if conv.UserAID != userID {
			return apperr.New(apperr.Forbidden, "not a participant")
		}
		return tx.Model(&conv).Update(col, viewing).Error
	})
}

func (r *chatRepository) MarkSeen(ctx context.Context, conversationID, receiverID uint) error {
	return r.db.WithContext(ctx).Model(&model.Message{}).
		Where("conversation_id = ? AND receiver_id = ? AND is_seen = ?", conversationID, receiverID, false).
		Update("is_seen", true).Error
}
