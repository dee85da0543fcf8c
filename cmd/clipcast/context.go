package main

import (
	"strings"
	"sync"

	"clipcast/internal/config"
)

type commandContext struct {
	addressFlag *string
	tokenFlag   *string
	configFlag  *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(addressFlag, tokenFlag, configFlag *string) *commandContext {
	return &commandContext{
		addressFlag: addressFlag,
		tokenFlag:   tokenFlag,
		configFlag:  configFlag,
	}
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
		c.config = cfg
	})
	return c.config, c.configErr
}

// client resolves the daemon address and token, preferring flags over
// configuration.
func (c *commandContext) client() (*apiClient, error) {
	address := ""
	if c.addressFlag != nil {
		address = strings.TrimSpace(*c.addressFlag)
	}
	token := ""
	if c.tokenFlag != nil {
		token = strings.TrimSpace(*c.tokenFlag)
	}

	if address == "" || token == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		if address == "" {
			address = cfg.Paths.APIBind
		}
		if token == "" {
			token = cfg.Paths.APIToken
		}
	}
	return newAPIClient(address, token), nil
}
