// Package security はアプリケーションのセキュリティ機能を提供する。
//
// InputSanitizerService はユーザーが入力する自由記述フィールド
// （薬の名前・用量・服用頻度）をサニタイズし、保存値がそのままUIに
// 表示されてもXSSを引き起こさないことを保証する。
// bluemondayのStrictPolicyを使用し、HTMLタグを一切許可しない。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// InputSanitizerService は自由記述テキストのサニタイズ機能のインターフェースを定義する。
type InputSanitizerService interface {
	// SanitizeText はテキストからHTMLタグをすべて除去し、前後の空白をトリムして返す。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeText(raw string) string
}

// inputSanitizer はInputSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type inputSanitizer struct {
	policy *bluemonday.Policy
}

// NewInputSanitizer はInputSanitizerServiceの新しいインスタンスを生成する。
// StrictPolicyはタグ・属性を一切許可せず、テキストのみを通過させる。
func NewInputSanitizer() *inputSanitizer {
	return &inputSanitizer{
		policy: bluemonday.StrictPolicy(),
	}
}

// SanitizeText はテキストからHTMLタグをすべて除去し、前後の空白をトリムして返す。
func (s *inputSanitizer) SanitizeText(raw string) string {
	return strings.TrimSpace(s.policy.Sanitize(raw))
}

// compile-time interface check
var _ InputSanitizerService = (*inputSanitizer)(nil)
