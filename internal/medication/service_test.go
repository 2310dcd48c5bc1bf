package medication

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/mediwatch/internal/model"
)

// --- モック ---

type mockMedRepo struct {
	createFn       func(ctx context.Context, med *model.Medication) error
	listByUserIDFn func(ctx context.Context, userID string) ([]*model.Medication, error)
	listAllFn      func(ctx context.Context) ([]*model.Medication, error)
	updateFn       func(ctx context.Context, med *model.Medication) (bool, error)
	deleteFn       func(ctx context.Context, id, userID string) (bool, error)
}

func (m *mockMedRepo) Create(ctx context.Context, med *model.Medication) error {
	if m.createFn != nil {
		return m.createFn(ctx, med)
	}
	return nil
}

func (m *mockMedRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Medication, error) {
	if m.listByUserIDFn != nil {
		return m.listByUserIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMedRepo) ListAll(ctx context.Context) ([]*model.Medication, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

func (m *mockMedRepo) Update(ctx context.Context, med *model.Medication) (bool, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, med)
	}
	return false, nil
}

func (m *mockMedRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id, userID)
	}
	return false, nil
}

// passthroughSanitizer は入力をそのまま返すサニタイザーのスタブ。
type passthroughSanitizer struct{}

func (passthroughSanitizer) SanitizeText(raw string) string { return raw }

// --- Create テスト ---

// 作成された薬が入力値とオーナーIDを保持することを検証
func TestService_Create_Success(t *testing.T) {
	var created *model.Medication
	repo := &mockMedRepo{
		createFn: func(ctx context.Context, med *model.Medication) error {
			created = med
			return nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	med, err := svc.Create(context.Background(), "user-a", Input{
		Name:       "Aspirin",
		Dosage:     "100mg",
		Frequency:  "daily",
		RefillDate: "2024-06-10",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if med.ID == "" {
		t.Error("expected assigned ID")
	}
	if med.UserID != "user-a" {
		t.Errorf("UserID = %q, want %q", med.UserID, "user-a")
	}
	if med.Name != "Aspirin" || med.Dosage != "100mg" || med.Frequency != "daily" || med.RefillDate != "2024-06-10" {
		t.Errorf("unexpected medication: %+v", med)
	}

	if created == nil {
		t.Fatal("expected Create to be called on the repository")
	}
	if created.ID != med.ID {
		t.Error("returned record should match the persisted record")
	}
}

// 必須フィールドが欠けた作成がINVALID_REQUESTで失敗することを検証
func TestService_Create_MissingFields(t *testing.T) {
	svc := NewService(&mockMedRepo{}, passthroughSanitizer{})

	cases := []Input{
		{Dosage: "100mg", Frequency: "daily", RefillDate: "2024-06-10"},
		{Name: "Aspirin", Frequency: "daily", RefillDate: "2024-06-10"},
		{Name: "Aspirin", Dosage: "100mg", RefillDate: "2024-06-10"},
		{Name: "Aspirin", Dosage: "100mg", Frequency: "daily"},
	}

	for i, in := range cases {
		_, err := svc.Create(context.Background(), "user-a", in)

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
			t.Errorf("case %d: err = %v, want INVALID_REQUEST", i, err)
		}
	}
}

// --- Update / Delete テスト ---

// 存在しない（または他ユーザー所有の）薬の更新がMEDICATION_NOT_FOUNDで失敗することを検証
func TestService_Update_NotFound(t *testing.T) {
	repo := &mockMedRepo{
		updateFn: func(ctx context.Context, med *model.Medication) (bool, error) {
			return false, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	err := svc.Update(context.Background(), "user-b", "med-of-user-a", Input{
		Name:       "Aspirin",
		Dosage:     "200mg",
		Frequency:  "daily",
		RefillDate: "2024-06-10",
	})

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeMedicationNotFound {
		t.Errorf("err = %v, want MEDICATION_NOT_FOUND", err)
	}
}

// 更新がオーナーIDと薬IDの両方でスコープされることを検証
func TestService_Update_ScopedToOwner(t *testing.T) {
	var updated *model.Medication
	repo := &mockMedRepo{
		updateFn: func(ctx context.Context, med *model.Medication) (bool, error) {
			updated = med
			return true, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	err := svc.Update(context.Background(), "user-a", "med-1", Input{
		Name:       "Aspirin",
		Dosage:     "200mg",
		Frequency:  "daily",
		RefillDate: "2024-06-10",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.ID != "med-1" || updated.UserID != "user-a" {
		t.Errorf("update should be scoped to (med-1, user-a), got (%s, %s)", updated.ID, updated.UserID)
	}
	if updated.Dosage != "200mg" {
		t.Errorf("dosage = %q, want %q", updated.Dosage, "200mg")
	}
}

// 存在しない薬の削除がMEDICATION_NOT_FOUNDで失敗することを検証
func TestService_Delete_NotFound(t *testing.T) {
	repo := &mockMedRepo{
		deleteFn: func(ctx context.Context, id, userID string) (bool, error) {
			return false, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	err := svc.Delete(context.Background(), "user-b", "med-of-user-a")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeMedicationNotFound {
		t.Errorf("err = %v, want MEDICATION_NOT_FOUND", err)
	}
}

// --- Upcoming テスト ---

// 7日間の閉区間の境界が正しく判定されることを検証
func TestService_Upcoming_WindowBoundaries(t *testing.T) {
	today := time.Date(2024, 6, 10, 15, 30, 0, 0, time.UTC)

	meds := []*model.Medication{
		{ID: "m1", UserID: "user-a", Name: "today", RefillDate: "2024-06-10"},
		{ID: "m2", UserID: "user-a", Name: "last-day", RefillDate: "2024-06-17"},
		{ID: "m3", UserID: "user-a", Name: "too-late", RefillDate: "2024-06-18"},
		{ID: "m4", UserID: "user-a", Name: "past", RefillDate: "2024-06-09"},
	}

	repo := &mockMedRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Medication, error) {
			return meds, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	entries, err := svc.Upcoming(context.Background(), "user-a", today, 7)
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	names := map[string]bool{}
	for _, e := range entries {
		names[e.Name] = true
		if e.Message != model.ReminderMessage {
			t.Errorf("message = %q, want %q", e.Message, model.ReminderMessage)
		}
	}
	if !names["today"] || !names["last-day"] {
		t.Errorf("entries should include 'today' and 'last-day', got %v", names)
	}
}

// パースできないrefill_dateがスキップされることを検証
func TestService_Upcoming_SkipsMalformedDates(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	repo := &mockMedRepo{
		listByUserIDFn: func(ctx context.Context, userID string) ([]*model.Medication, error) {
			return []*model.Medication{
				{ID: "m1", UserID: "user-a", Name: "ok", RefillDate: "2024-06-12"},
				{ID: "m2", UserID: "user-a", Name: "bad", RefillDate: "not-a-date"},
				{ID: "m3", UserID: "user-a", Name: "empty", RefillDate: ""},
			}, nil
		},
	}

	svc := NewService(repo, passthroughSanitizer{})

	entries, err := svc.Upcoming(context.Background(), "user-a", today, 7)
	if err != nil {
		t.Fatalf("Upcoming failed: %v", err)
	}

	if len(entries) != 1 || entries[0].Name != "ok" {
		t.Errorf("entries = %+v, want only 'ok'", entries)
	}
}
