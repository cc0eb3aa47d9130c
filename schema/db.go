package schema

import (
	"time"
)

const (
	W3TransactionTable = "w3_transaction"

	DefaultSlippageBps     = 500 // 5%
	DefaultDeadlineSeconds = 300
)

// W3Transaction is one IndexEntry, rows are only ever appended.
type W3Transaction struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	CreatedAt time.Time `json:"createdAt"`

	W3Height  string `gorm:"column:w3_height" json:"w3Height"` // da inclusion height, decimal
	W3Address string `gorm:"column:w3_address;index:idx_w3_address" json:"w3Address"`
}

func (W3Transaction) TableName() string {
	return W3TransactionTable
}

// SwapParam is the single-row runtime configuration of the swap engine.
type SwapParam struct {
	ID              uint `gorm:"primarykey"`
	SlippageBps     int64
	DeadlineSeconds int64
	UpdatedAt       time.Time
}
