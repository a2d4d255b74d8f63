package main

import (
	"context"
	"strings"
	"sync"

	contrafeed "contra-feed/agents/contra-feed"
	"contra-feed/shared/config"

	"github.com/m-mizutani/goerr/v2"
	"go.uber.org/zap"
)

type commandContext struct {
	configFlag *string
	jsonFlag   *bool

	configOnce sync.Once
	config     *config.Config
	logger     *zap.Logger
	configErr  error

	appOnce sync.Once
	app     *contrafeed.App
	appErr  error
}

func newCommandContext(configFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		jsonFlag:   jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadFile(path)
		if err != nil {
			c.configErr = err
			return
		}
		logger, err := newLogger(cfg.LogLevel)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.logger = logger
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureApp(ctx context.Context) (*contrafeed.App, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.appOnce.Do(func() {
		c.app, c.appErr = contrafeed.NewApp(ctx, cfg, c.logger)
	})
	return c.app, c.appErr
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// newLogger writes JSON logs to stderr so stdout stays clean for results.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid log level", goerr.V("level", level))
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	logger, err := zcfg.Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build logger")
	}
	return logger, nil
}
