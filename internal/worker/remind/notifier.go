package remind

import (
	"context"
	"log/slog"
)

// Urgency はリマインダー通知の緊急度を表す。
type Urgency string

const (
	// UrgencyInfo は補充日が翌日のリマインダーを示す。
	UrgencyInfo Urgency = "info"
	// UrgencyUrgent は補充日が当日のリマインダーを示す。
	UrgencyUrgent Urgency = "urgent"
)

// Notification はスキャナーが発行する1件の通知を表す。
type Notification struct {
	MedicationID   string
	MedicationName string
	UserID         string
	RefillDate     string
	Urgency        Urgency
}

// Notifier は通知の配送先インターフェース。
// スキャナーは「いつ・何を通知するか」のみを決定し、配送方法は実装に委ねる。
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier は通知を構造化ログとして出力するNotifier実装。
// メールやプッシュ通知などの配送チャネルに差し替え可能。
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier はLogNotifierを生成する。
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify は通知内容をINFO（翌日）またはWARN（当日）レベルでログ出力する。
func (n *LogNotifier) Notify(ctx context.Context, notification Notification) error {
	level := slog.LevelInfo
	msg := "refill reminder: refill due tomorrow"
	if notification.Urgency == UrgencyUrgent {
		level = slog.LevelWarn
		msg = "refill reminder: refill due today"
	}

	n.logger.Log(ctx, level, msg,
		slog.String("medication_id", notification.MedicationID),
		slog.String("medication_name", notification.MedicationName),
		slog.String("user_id", notification.UserID),
		slog.String("refill_date", notification.RefillDate),
	)

	return nil
}

// compile-time interface check
var _ Notifier = (*LogNotifier)(nil)
