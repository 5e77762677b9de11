// internal/app/services/fanout/fanout.go

// Package fanoutsvc persists group messages and pushes best-effort
// notifications to the other active members. Persistence and fan-out
// sit in separate failure domains: the message write is transactional
// and authoritative, while each recipient's delivery is fire-and-
// forget — a gateway failure is logged and counted, never retried
// here, never surfaced to the sender, and never rolls the message
// back.
package fanoutsvc

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	membershipstore "github.com/dalemusser/texthub/internal/app/store/memberships"
	messagestore "github.com/dalemusser/texthub/internal/app/store/messages"
	"github.com/dalemusser/texthub/internal/app/store/queries/groupmembers"
	"github.com/dalemusser/texthub/internal/app/system/metrics"
	"github.com/dalemusser/texthub/internal/app/system/sms"
	"github.com/dalemusser/texthub/internal/domain/faults"
	"github.com/dalemusser/texthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Service struct {
	db          *mongo.Database
	memberships *membershipstore.Store
	messages    *messagestore.Store
	gateway     sms.Gateway
	maxLen      int
	log         *zap.Logger
}

// New builds the service. maxLen <= 0 selects the default message
// length bound.
func New(db *mongo.Database, gateway sms.Gateway, maxLen int, logger *zap.Logger) *Service {
	if maxLen <= 0 {
		maxLen = models.DefaultMaxMessageLength
	}
	return &Service{
		db:          db,
		memberships: membershipstore.New(db),
		messages:    messagestore.New(db),
		gateway:     gateway,
		maxLen:      maxLen,
		log:         logger,
	}
}

// Send validates, persists, and fans out one message from sender to
// group. The message counts as sent once the row is persisted;
// everything after that is best effort.
func (s *Service) Send(ctx context.Context, sender models.User, group models.Group, content string) (models.Message, error) {
	active, err := s.memberships.IsActiveMember(ctx, sender.ID, group.ID)
	if err != nil {
		return models.Message{}, err
	}
	if !active {
		return models.Message{}, faults.ErrNotAMember
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return models.Message{}, faults.ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > s.maxLen {
		return models.Message{}, faults.ErrMessageTooLong
	}

	msg, err := s.messages.Insert(ctx, group.ID, sender.ID, content)
	if err != nil {
		return models.Message{}, err
	}

	s.fanOut(ctx, sender, group, content)
	return msg, nil
}

// fanOut dispatches to every active member except the sender. One
// recipient's failure must not block the rest, so each send stands
// alone.
func (s *Service) fanOut(ctx context.Context, sender models.User, group models.Group, content string) {
	phones, err := groupmembers.RecipientPhones(ctx, s.db, group.ID, sender.ID)
	if err != nil {
		s.log.Warn("fan-out recipient lookup failed",
			zap.String("group_id", group.ID.Hex()), zap.Error(err))
		return
	}

	body := fmt.Sprintf("[%s] %s: %s", group.Name, sender.Name, content)
	for _, phone := range phones {
		if _, err := s.gateway.Send(ctx, phone, body); err != nil {
			metrics.FanoutFailures.Inc()
			s.log.Warn("fan-out delivery failed",
				zap.String("group_id", group.ID.Hex()),
				zap.String("to", phone),
				zap.Error(err))
			continue
		}
		metrics.FanoutSends.Inc()
	}
}

// ListGroupMessages returns the group's history, newest first.
func (s *Service) ListGroupMessages(ctx context.Context, groupID primitive.ObjectID, limit int64) ([]models.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.messages.ListByGroup(ctx, groupID, limit)
}
