package config

func (c *Config) runJobs() {
	c.scheduler.Every(1).Minute().SingletonMode().Do(c.updateSwapParam)

	c.scheduler.StartAsync()
}

func (c *Config) updateSwapParam() {
	param, err := c.wdb.GetSwapParam()
	if err != nil {
		log.Error("c.wdb.GetSwapParam()", "err", err)
		return
	}
	if param.SlippageBps < 0 || param.SlippageBps > 10000 || param.DeadlineSeconds <= 0 {
		log.Warn("ignore invalid swap param", "slippageBps", param.SlippageBps, "deadlineSeconds", param.DeadlineSeconds)
		return
	}
	c.lock.Lock()
	c.slippageBps = param.SlippageBps
	c.deadlineSeconds = param.DeadlineSeconds
	c.lock.Unlock()
}
