package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"medallion/internal/config"
	"medallion/internal/engine"
	"medallion/internal/logging"
	"medallion/internal/scanlog"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	engineOnce sync.Once
	engine     *engine.Engine
	scanLog    *scanlog.Logger
	engineErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureEngine() (*engine.Engine, error) {
	c.engineOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.engineErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.engineErr = fmt.Errorf("initialize logging: %w", err)
			return
		}
		eng, err := engine.NewFromConfig(cfg, logger)
		if err != nil {
			c.engineErr = fmt.Errorf("initialize engine: %w", err)
			return
		}

		scanLog, err := scanlog.Open(filepath.Join(cfg.Paths.LogDir, "scan.log"))
		if err != nil {
			c.engineErr = fmt.Errorf("open scan log: %w", err)
			return
		}
		eng.SetScanLog(scanLog)

		c.engine = eng
		c.scanLog = scanLog
	})
	return c.engine, c.engineErr
}
