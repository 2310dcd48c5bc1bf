// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"errors"

	"github.com/hitoshi/mediwatch/internal/model"
)

// ErrDuplicateEmail はメールアドレスのユニーク制約違反を表す。
// サービス層でAPIErrorに変換される。
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	// メールアドレスが既に存在する場合はErrDuplicateEmailを返す。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail は指定メールアドレスのユーザーを取得する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// MedicationRepository は薬データの永続化インターフェース。
// 書き込み系の操作は単一のSQL文で実行され、行単位でアトミックに反映される。
type MedicationRepository interface {
	// Create は薬を作成する。
	Create(ctx context.Context, med *model.Medication) error

	// ListByUserID はユーザー所有の薬一覧を作成日時順で返す。
	ListByUserID(ctx context.Context, userID string) ([]*model.Medication, error)

	// ListAll は全ユーザーの薬を返す。リマインダースキャンの管理スイープ用。
	ListAll(ctx context.Context) ([]*model.Medication, error)

	// Update は指定IDかつ指定ユーザー所有の薬の全フィールドを置き換える。
	// 該当行が存在しない場合はfalseを返す。
	Update(ctx context.Context, med *model.Medication) (bool, error)

	// Delete は指定IDかつ指定ユーザー所有の薬を削除する。
	// 該当行が存在しない場合はfalseを返す。
	Delete(ctx context.Context, id, userID string) (bool, error)
}
