// Package remind は薬の補充リマインダーのバックグラウンドスキャンを提供する。
// 固定間隔のティッカーで全ユーザーの薬をスイープし、補充日が当日または
// 翌日の薬に対して通知を発行する。
package remind

import (
	"context"
	"log/slog"
	"time"

	"github.com/hitoshi/mediwatch/internal/metrics"
	"github.com/hitoshi/mediwatch/internal/model"
	"github.com/hitoshi/mediwatch/internal/repository"
)

// Scanner は薬の補充日を定期的にスキャンするバックグラウンドタスク。
// プロセスライフサイクルに所有される明示的なタスクとして構築され、
// コンテキストのキャンセルで停止する。テストでは複数インスタンスを
// 分離して起動できる。
type Scanner struct {
	medRepo   repository.MedicationRepository
	notifier  Notifier
	logger    *slog.Logger
	collector metrics.ScanCollector

	// now はテストで固定時刻を注入するためのフック。
	now func() time.Time
}

// NewScanner はScannerの新しいインスタンスを生成する。
func NewScanner(
	medRepo repository.MedicationRepository,
	notifier Notifier,
	logger *slog.Logger,
	collector metrics.ScanCollector,
) *Scanner {
	return &Scanner{
		medRepo:   medRepo,
		notifier:  notifier,
		logger:    logger,
		collector: collector,
		now:       time.Now,
	}
}

// Start は指定間隔のティッカーでスキャナーを起動する。
// コンテキストがキャンセルされるまで実行を継続する（ブロッキング）。
func (s *Scanner) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("リマインダースキャナーを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("リマインダースキャンの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("リマインダースキャナーを停止しました")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("リマインダースキャンの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は全ユーザーの薬を1回スイープし、補充日が当日の薬には緊急通知を、
// 翌日の薬には情報通知を発行する。
// パースできないrefill_dateはWARNログとカウンターに記録してスキップする
// （該当レコードを飛ばす回復動作のみで、スイープ全体は継続する）。
// スイープはロックを保持しないread-onlyの読み取りであり、APIの書き込みと
// 並行して実行できる。1ティック分古いスナップショットの観測は許容される。
func (s *Scanner) RunOnce(ctx context.Context) error {
	start := s.now()

	meds, err := s.medRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	today := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	tomorrow := today.AddDate(0, 0, 1)

	emitted := 0
	for _, med := range meds {
		if med.RefillDate == "" {
			continue
		}

		refill, err := time.Parse(model.RefillDateLayout, med.RefillDate)
		if err != nil {
			s.logger.Warn("refill_dateをパースできないためスキップします",
				slog.String("medication_id", med.ID),
				slog.String("refill_date", med.RefillDate),
			)
			s.collector.RecordDateParseFailure()
			continue
		}

		switch {
		case refill.Equal(tomorrow):
			if err := s.emit(ctx, med, UrgencyInfo); err == nil {
				emitted++
			}
		case refill.Equal(today):
			if err := s.emit(ctx, med, UrgencyUrgent); err == nil {
				emitted++
			}
		}
	}

	duration := time.Since(start)
	s.collector.RecordScanCycle(duration)
	s.logger.Info("リマインダースキャンが完了しました",
		slog.Int("medication_count", len(meds)),
		slog.Int("notifications_emitted", emitted),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}

// emit は1件の通知を発行し、メトリクスに記録する。
func (s *Scanner) emit(ctx context.Context, med *model.Medication, urgency Urgency) error {
	err := s.notifier.Notify(ctx, Notification{
		MedicationID:   med.ID,
		MedicationName: med.Name,
		UserID:         med.UserID,
		RefillDate:     med.RefillDate,
		Urgency:        urgency,
	})
	if err != nil {
		s.logger.Error("通知の発行に失敗しました",
			slog.String("medication_id", med.ID),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.collector.RecordReminderEmitted(string(urgency))
	return nil
}
