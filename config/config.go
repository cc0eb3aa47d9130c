package config

import (
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/w3ledger/w3ledger/common"
	"github.com/w3ledger/w3ledger/schema"
	"gorm.io/gorm"
)

var log = common.NewLog("config")

// Config holds the runtime swap params. It satisfies dex.Params.
type Config struct {
	wdb       *Wdb
	scheduler *gocron.Scheduler

	lock            sync.RWMutex
	slippageBps     int64
	deadlineSeconds int64
}

func New(db *gorm.DB) *Config {
	wdb := NewWdb(db)
	if err := wdb.Migrate(); err != nil {
		panic(err)
	}
	c := &Config{
		wdb:             wdb,
		scheduler:       gocron.NewScheduler(time.UTC),
		slippageBps:     schema.DefaultSlippageBps,
		deadlineSeconds: schema.DefaultDeadlineSeconds,
	}
	c.updateSwapParam()
	return c
}

func (c *Config) SlippageBps() int64 {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.slippageBps
}

func (c *Config) Deadline() time.Duration {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return time.Duration(c.deadlineSeconds) * time.Second
}

func (c *Config) Run() {
	go c.runJobs()
}

func (c *Config) Close() {
	c.scheduler.Stop()
}
