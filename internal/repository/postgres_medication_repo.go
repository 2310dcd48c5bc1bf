package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/mediwatch/internal/model"
)

// PostgresMedicationRepo はPostgreSQLを使用した薬リポジトリ。
type PostgresMedicationRepo struct {
	db *sql.DB
}

// NewPostgresMedicationRepo はPostgresMedicationRepoを生成する。
func NewPostgresMedicationRepo(db *sql.DB) *PostgresMedicationRepo {
	return &PostgresMedicationRepo{db: db}
}

// Create は薬を作成する。
func (r *PostgresMedicationRepo) Create(ctx context.Context, med *model.Medication) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO medications (id, user_id, name, dosage, frequency, refill_date, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		med.ID, med.UserID, med.Name, med.Dosage, med.Frequency, med.RefillDate,
		med.CreatedAt, med.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert medication: %w", err)
	}

	return nil
}

// ListByUserID はユーザー所有の薬一覧を作成日時順で返す。
func (r *PostgresMedicationRepo) ListByUserID(ctx context.Context, userID string) ([]*model.Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, dosage, frequency, refill_date, created_at, updated_at
		 FROM medications WHERE user_id = $1 ORDER BY created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	defer rows.Close()

	return scanMedications(rows)
}

// ListAll は全ユーザーの薬を返す。リマインダースキャンの管理スイープ用。
// スキャンはread-onlyであり、ロックを保持せず直近コミット済みのスナップショットを読む。
func (r *PostgresMedicationRepo) ListAll(ctx context.Context) ([]*model.Medication, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, name, dosage, frequency, refill_date, created_at, updated_at
		 FROM medications ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list all medications: %w", err)
	}
	defer rows.Close()

	return scanMedications(rows)
}

// Update は指定IDかつ指定ユーザー所有の薬の全フィールドを置き換える。
// 単一のUPDATE文で実行されるため行単位でアトミック。最後の書き込みが勝つ。
// 該当行が存在しない場合はfalseを返す。
func (r *PostgresMedicationRepo) Update(ctx context.Context, med *model.Medication) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE medications
		 SET name = $1, dosage = $2, frequency = $3, refill_date = $4, updated_at = $5
		 WHERE id = $6 AND user_id = $7`,
		med.Name, med.Dosage, med.Frequency, med.RefillDate, med.UpdatedAt,
		med.ID, med.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update medication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// Delete は指定IDかつ指定ユーザー所有の薬を削除する。
// 該当行が存在しない場合はfalseを返す。
func (r *PostgresMedicationRepo) Delete(ctx context.Context, id, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM medications WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete medication: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// scanMedications は結果セットをMedicationスライスに変換する。
func scanMedications(rows *sql.Rows) ([]*model.Medication, error) {
	var meds []*model.Medication
	for rows.Next() {
		med := &model.Medication{}
		if err := rows.Scan(&med.ID, &med.UserID, &med.Name, &med.Dosage, &med.Frequency,
			&med.RefillDate, &med.CreatedAt, &med.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		meds = append(meds, med)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate medications: %w", err)
	}

	return meds, nil
}

// compile-time interface check
var _ MedicationRepository = (*PostgresMedicationRepo)(nil)
