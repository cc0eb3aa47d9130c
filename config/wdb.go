package config

import (
	"github.com/w3ledger/w3ledger/schema"
	"gorm.io/gorm"
)

type Wdb struct {
	Db *gorm.DB
}

// NewWdb shares the gateway's database handle.
func NewWdb(db *gorm.DB) *Wdb {
	return &Wdb{Db: db}
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.SwapParam{})
}

func (w *Wdb) GetSwapParam() (param schema.SwapParam, err error) {
	err = w.Db.First(&param).Error
	if err == gorm.ErrRecordNotFound {
		param = schema.SwapParam{
			SlippageBps:     schema.DefaultSlippageBps,
			DeadlineSeconds: schema.DefaultDeadlineSeconds,
		}
		return param, nil
	}
	return
}

// SetSwapParam writes the single params row, creating it on first use.
func (w *Wdb) SetSwapParam(slippageBps, deadlineSeconds int64) error {
	param := schema.SwapParam{}
	err := w.Db.First(&param).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	param.SlippageBps = slippageBps
	param.DeadlineSeconds = deadlineSeconds
	return w.Db.Save(&param).Error
}
