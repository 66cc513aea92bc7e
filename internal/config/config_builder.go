package config

import (
	"errors"
	"fmt"
	"time"

	"dario.cat/mergo"
)

// Default values applied to fields no source has set.
const (
	DefaultEnvsDirName     = "envs"
	DefaultSchemaFile      = "config.schema"
	DefaultPersistFileKey  = "_persistFile"
	DefaultPersistInterval = 120 * time.Second
	DefaultLogLevel        = "info"
)

type configBuilder struct {
	configs  []*StructuredConfig
	defaults *StructuredConfig
	err      error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{
		configs: make([]*StructuredConfig, 0, 4),
	}
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	config := new(StructuredConfig)
	for _, cfg := range b.configs {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if b.defaults != nil {
		// fills only the fields left empty by every source
		if err := mergo.Merge(config, b.defaults); err != nil {
			return nil, fmt.Errorf("error applying default configs: %w", err)
		}
	}

	return config, config.validate()
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(args []string) *configBuilder {
	flags, err := ParseFlags(args)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, flags)
	return b
}

func (b *configBuilder) withJSON() *configBuilder {
	var jsonPath string
	isJSONSpecified := false

	for _, cfg := range b.configs {
		if cfg.JSONFilePath != "" {
			isJSONSpecified = true
			jsonPath = cfg.JSONFilePath
		}
	}

	if isJSONSpecified {
		jsonCfg, err := parseJSON(jsonPath)
		if err != nil {
			b.err = errors.Join(b.err, err)
			return b
		}
		b.configs = append(b.configs, jsonCfg)
	}

	return b
}

func (b *configBuilder) withDefaults() *configBuilder {
	b.defaults = &StructuredConfig{
		Envs: Envs{
			SchemaFile: DefaultSchemaFile,
		},
		Persistence: Persistence{
			MinInterval: DefaultPersistInterval,
			FileKey:     DefaultPersistFileKey,
		},
		Log: Log{
			Level: DefaultLogLevel,
		},
	}
	return b
}
