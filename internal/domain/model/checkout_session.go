package model

import "time"

// 作成したホスト型決済セッションの記録。
// レスポンスには影響しない（監査用）。
type CheckoutSession struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	//プロバイダ側のセッションID
	ProviderSessionID string `gorm:"type:varchar(255);not null;index" json:"provider_session_id"`

	//リダイレクト先
	URL string `gorm:"type:text;not null" json:"url"`

	//最初の明細の通貨（小文字）
	Currency string `gorm:"type:varchar(10);not null" json:"currency"`

	AmountTotal int64 `gorm:"not null" json:"amount_total"`
	LineCount   int   `gorm:"not null" json:"line_count"`
	ItemCount   int64 `gorm:"not null" json:"item_count"`

	//リクエスト元のホスト
	Host string `gorm:"type:varchar(255)" json:"host"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
