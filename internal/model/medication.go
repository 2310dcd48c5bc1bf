// Package model はドメインモデルを定義する。
package model

import "time"

// RefillDateLayout はrefill_dateの日付フォーマット（ISO 8601の日付部分）。
const RefillDateLayout = "2006-01-02"

// Medication はユーザーが管理する薬を表す。
// RefillDateは"YYYY-MM-DD"形式の文字列として保持する。
// 書き込み時にフォーマット検証は行わず、読み取り側（リマインダー判定）で
// パースに失敗したレコードをスキップする。
type Medication struct {
	ID         string
	UserID     string
	Name       string
	Dosage     string
	Frequency  string
	RefillDate string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReminderEntry はユーザー向けリマインダー一覧の1件を表す。
type ReminderEntry struct {
	Name       string
	RefillDate string
	Message    string
}

// ReminderMessage はリマインダー一覧の固定メッセージ。
const ReminderMessage = "Refill needed soon"
