// Package medication は薬のCRUD操作とリマインダー一覧の取得を提供する。
// すべての操作は認証済みユーザーのIDでスコープされ、他ユーザーの薬は
// 参照も変更もできない。
package medication

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/mediwatch/internal/model"
	"github.com/hitoshi/mediwatch/internal/repository"
	"github.com/hitoshi/mediwatch/internal/security"
)

// Input は薬の作成・更新リクエストの入力値。
type Input struct {
	Name       string
	Dosage     string
	Frequency  string
	RefillDate string
}

// Service は薬管理のビジネスロジックを提供する。
type Service struct {
	medRepo   repository.MedicationRepository
	sanitizer security.InputSanitizerService
}

// NewService はServiceを生成する。
func NewService(medRepo repository.MedicationRepository, sanitizer security.InputSanitizerService) *Service {
	return &Service{
		medRepo:   medRepo,
		sanitizer: sanitizer,
	}
}

// validate は必須フィールドの非空チェックを行う。
// refill_dateのフォーマット検証は行わない。パース不能な値は
// リマインダー判定側でスキップされる。
func validate(in Input) error {
	switch {
	case in.Name == "":
		return model.NewInvalidRequestError("name は必須です")
	case in.Dosage == "":
		return model.NewInvalidRequestError("dosage は必須です")
	case in.Frequency == "":
		return model.NewInvalidRequestError("frequency は必須です")
	case in.RefillDate == "":
		return model.NewInvalidRequestError("refill_date は必須です")
	}
	return nil
}

// sanitize は自由記述フィールドからHTMLタグを除去する。
func (s *Service) sanitize(in Input) Input {
	in.Name = s.sanitizer.SanitizeText(in.Name)
	in.Dosage = s.sanitizer.SanitizeText(in.Dosage)
	in.Frequency = s.sanitizer.SanitizeText(in.Frequency)
	return in
}

// Create は薬を新規作成し、保存されたレコードを返す。
func (s *Service) Create(ctx context.Context, userID string, in Input) (*model.Medication, error) {
	in = s.sanitize(in)
	if err := validate(in); err != nil {
		return nil, err
	}

	now := time.Now()
	med := &model.Medication{
		ID:         uuid.New().String(),
		UserID:     userID,
		Name:       in.Name,
		Dosage:     in.Dosage,
		Frequency:  in.Frequency,
		RefillDate: in.RefillDate,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.medRepo.Create(ctx, med); err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}

	return med, nil
}

// List はユーザー所有の薬一覧を返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Medication, error) {
	meds, err := s.medRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return meds, nil
}

// Update は指定IDの薬の全フィールドを置き換える。
// 該当薬が存在しない、または他ユーザー所有の場合はMEDICATION_NOT_FOUNDを返す。
func (s *Service) Update(ctx context.Context, userID, medID string, in Input) error {
	in = s.sanitize(in)
	if err := validate(in); err != nil {
		return err
	}

	med := &model.Medication{
		ID:         medID,
		UserID:     userID,
		Name:       in.Name,
		Dosage:     in.Dosage,
		Frequency:  in.Frequency,
		RefillDate: in.RefillDate,
		UpdatedAt:  time.Now(),
	}

	updated, err := s.medRepo.Update(ctx, med)
	if err != nil {
		return fmt.Errorf("failed to update medication: %w", err)
	}
	if !updated {
		return model.NewMedicationNotFoundError(medID)
	}

	return nil
}

// Delete は指定IDの薬を削除する。
// 該当薬が存在しない、または他ユーザー所有の場合はMEDICATION_NOT_FOUNDを返す。
func (s *Service) Delete(ctx context.Context, userID, medID string) error {
	deleted, err := s.medRepo.Delete(ctx, medID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete medication: %w", err)
	}
	if !deleted {
		return model.NewMedicationNotFoundError(medID)
	}

	return nil
}

// Upcoming はrefill_dateが[today, today+horizonDays]の閉区間に入る
// ユーザー所有の薬をReminderEntryとして返す。
// パースできないrefill_dateを持つレコードはWARNログを出してスキップする。
func (s *Service) Upcoming(ctx context.Context, userID string, today time.Time, horizonDays int) ([]model.ReminderEntry, error) {
	meds, err := s.medRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}

	// 時刻成分を落として日付のみで比較する。
	// time.Parseの結果（UTC深夜0時）と比較できるようUTCで正規化する。
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	limit := day.AddDate(0, 0, horizonDays)

	entries := []model.ReminderEntry{}
	for _, med := range meds {
		if med.RefillDate == "" {
			continue
		}

		refill, err := time.Parse(model.RefillDateLayout, med.RefillDate)
		if err != nil {
			slog.Warn("skipping medication with unparsable refill date",
				slog.String("medication_id", med.ID),
				slog.String("refill_date", med.RefillDate),
			)
			continue
		}

		if refill.Before(day) || refill.After(limit) {
			continue
		}

		entries = append(entries, model.ReminderEntry{
			Name:       med.Name,
			RefillDate: med.RefillDate,
			Message:    model.ReminderMessage,
		})
	}

	return entries, nil
}
