package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/mediwatch/internal/medication"
	"github.com/hitoshi/mediwatch/internal/middleware"
	"github.com/hitoshi/mediwatch/internal/model"
)

// MedicationServiceInterface は薬ハンドラーが必要とするサービスインターフェース。
type MedicationServiceInterface interface {
	// Create は薬を新規作成し、保存されたレコードを返す。
	Create(ctx context.Context, userID string, in medication.Input) (*model.Medication, error)
	// List はユーザー所有の薬一覧を返す。
	List(ctx context.Context, userID string) ([]*model.Medication, error)
	// Update は指定IDの薬の全フィールドを置き換える。
	Update(ctx context.Context, userID, medID string, in medication.Input) error
	// Delete は指定IDの薬を削除する。
	Delete(ctx context.Context, userID, medID string) error
	// Upcoming は指定期間内に補充日を迎える薬のリマインダー一覧を返す。
	Upcoming(ctx context.Context, userID string, today time.Time, horizonDays int) ([]model.ReminderEntry, error)
}

// defaultReminderHorizonDays はユーザー向けリマインダー一覧の先読み日数のデフォルト値。
const defaultReminderHorizonDays = 7

// MedicationHandler は薬管理のHTTPハンドラー。
type MedicationHandler struct {
	service     MedicationServiceInterface
	horizonDays int
}

// NewMedicationHandler はMedicationHandlerを生成する。
// horizonDaysが0以下の場合はデフォルトの7日を使用する。
func NewMedicationHandler(service MedicationServiceInterface, horizonDays int) *MedicationHandler {
	if horizonDays <= 0 {
		horizonDays = defaultReminderHorizonDays
	}
	return &MedicationHandler{
		service:     service,
		horizonDays: horizonDays,
	}
}

// --- リクエスト/レスポンス型 ---

// medicationRequest は薬の作成・更新リクエストのボディ。
type medicationRequest struct {
	Name       string `json:"name"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	RefillDate string `json:"refill_date"`
}

// medicationResponse は薬1件のレスポンス。
type medicationResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	RefillDate string `json:"refill_date"`
	UserID     string `json:"user_id"`
}

// reminderEntryResponse はリマインダー一覧の1件のレスポンス。
type reminderEntryResponse struct {
	Name       string `json:"name"`
	RefillDate string `json:"refill_date"`
	Message    string `json:"message"`
}

// toMedicationResponse はドメインモデルをレスポンス型に変換する。
func toMedicationResponse(med *model.Medication) medicationResponse {
	return medicationResponse{
		ID:         med.ID,
		Name:       med.Name,
		Dosage:     med.Dosage,
		Frequency:  med.Frequency,
		RefillDate: med.RefillDate,
		UserID:     med.UserID,
	}
}

// Create は薬を新規作成する。
// POST /medications
func (h *MedicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("JSONボディを解析できません"))
		return
	}

	med, err := h.service.Create(r.Context(), userID, medication.Input{
		Name:       req.Name,
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		RefillDate: req.RefillDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMedicationResponse(med))
}

// List はユーザー所有の薬一覧を取得する。
// GET /medications
func (h *MedicationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	meds, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]medicationResponse, 0, len(meds))
	for _, med := range meds {
		resp = append(resp, toMedicationResponse(med))
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// Update は指定IDの薬の全フィールドを置き換える。
// PUT /medications/{id}
func (h *MedicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	medID := chi.URLParam(r, "id")

	var req medicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("JSONボディを解析できません"))
		return
	}

	err = h.service.Update(r.Context(), userID, medID, medication.Input{
		Name:       req.Name,
		Dosage:     req.Dosage,
		Frequency:  req.Frequency,
		RefillDate: req.RefillDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "Medication updated successfully",
	})
}

// Delete は指定IDの薬を削除する。
// DELETE /medications/{id}
func (h *MedicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	medID := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), userID, medID); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, messageResponse{
		Message: "Medication deleted successfully",
	})
}

// Reminders は設定された先読み日数以内に補充日を迎える薬のリマインダー一覧を取得する。
// GET /medications/reminders
func (h *MedicationHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entries, err := h.service.Upcoming(r.Context(), userID, time.Now().UTC(), h.horizonDays)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := make([]reminderEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, reminderEntryResponse{
			Name:       e.Name,
			RefillDate: e.RefillDate,
			Message:    e.Message,
		})
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
