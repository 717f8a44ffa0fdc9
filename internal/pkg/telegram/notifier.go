package telegram

import (
	"go.uber.org/zap"
)

// Notifier delivers user and admin messages through the raw Bot API.
// Best-effort: a delivery failure is logged and dropped, state
// transitions never depend on it.
type Notifier struct {
	api     *BotAPI
	adminID int64
	logger  *zap.Logger
}

func NewNotifier(api *BotAPI, adminID int64, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, adminID: adminID, logger: logger}
}

func (n *Notifier) NotifyUser(userID int64, text string) {
	if _, err := n.api.SendMessage(userID, text, nil); err != nil {
		n.logger.Warn("User notification failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func (n *Notifier) NotifyAdmin(text string) {
	if n.adminID == 0 {
		return
	}
	if _, err := n.api.SendMessage(n.adminID, text, nil); err != nil {
		n.logger.Warn("Admin notification failed", zap.Error(err))
	}
}
