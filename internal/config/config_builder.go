package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/spf13/afero"
)

type configBuilder struct {
	fs      afero.Fs
	environ map[string]string
	file    *StructuredConfig
	configs []*StructuredConfig
	err     error
}

func newConfigBuilder(fs afero.Fs) *configBuilder {
	return &configBuilder{
		fs:      fs,
		configs: make([]*StructuredConfig, 0, 4),
	}
}

// build merges defaults, the config file and then every collected source in
// order; each later source overrides non-zero fields.
func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	layers := make([]*StructuredConfig, 0, len(b.configs)+1)
	if b.file != nil {
		layers = append(layers, b.file)
	}
	layers = append(layers, b.configs...)

	config := defaultConfig()
	for _, cfg := range layers {
		if err := mergo.Merge(config, cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	return config, nil
}

// withEnviron makes withEnv read from environ instead of the process
// environment.
func (b *configBuilder) withEnviron(environ map[string]string) *configBuilder {
	b.environ = environ
	return b
}

func (b *configBuilder) withEnv() *configBuilder {
	envCfg := &StructuredConfig{}
	if err := parseEnv(envCfg, b.environ); err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}

func (b *configBuilder) withFlags(fv *FlagValues) *configBuilder {
	if fv == nil {
		return b
	}

	b.configs = append(b.configs, fv.config())
	return b
}

// withFile loads the file named by the last source that sets
// ConfigFilePath. The file sits below env and flags in priority.
func (b *configBuilder) withFile() *configBuilder {
	var path string
	for _, cfg := range b.configs {
		if cfg.ConfigFilePath != "" {
			path = cfg.ConfigFilePath
		}
	}

	if path == "" {
		return b
	}

	fileCfg, err := parseFile(b.fs, path)
	if err != nil {
		b.err = errors.Join(b.err, err)
		return b
	}
	b.file = fileCfg

	return b
}
