// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

// NotificationService fans domain events out to users. Delivery is log-only
// until a mail or push provider is configured.
type NotificationService struct{}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyUserChange(ctx context.Context, changeType string, user model.User) error {
	logger.Info("NOTIFICATION: user change",
		zap.String("changeType", changeType),
		zap.String("userID", user.ID),
		zap.String("username", user.Username))
	return nil
}

func (n *NotificationService) NotifyClubChange(ctx context.Context, changeType string, club model.Club) error {
	switch changeType {
	case "created", "deleted", "book_added":
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}
	logger.Info("NOTIFICATION: club change",
		zap.String("changeType", changeType),
		zap.String("clubID", club.ID),
		zap.String("clubName", club.Name),
		zap.Strings("members", club.Users))
	return nil
}

func (n *NotificationService) NotifyMembershipChange(ctx context.Context, changeType string, change model.MembershipChange) error {
	logger.Info("NOTIFICATION: membership change",
		zap.String("changeType", changeType),
		zap.String("clubID", change.ClubID),
		zap.String("userID", change.UserID))
	return nil
}

// NotifyClubMembers tells the members of a club about a new review.
func (n *NotificationService) NotifyClubMembers(ctx context.Context, review model.Review, memberIDs []string) error {
	recipients := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != review.UserID {
			recipients = append(recipients, id)
		}
	}
	if len(recipients) == 0 {
		return nil
	}
	logger.Info("NOTIFICATION: new review in club",
		zap.String("clubID", review.ClubID),
		zap.String("reviewID", review.ID),
		zap.String("author", review.Username),
		zap.Strings("recipients", recipients))
	return nil
}
