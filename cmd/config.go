package cmd

import (
	log "github.com/jensneuse/abstractlogger"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/wundergraph/graphql-cacheid/pkg/cacheid"
)

type Config struct {
	cacheid.Config    `mapstructure:",squash"`
	DocumentCacheSize int  `mapstructure:"documentCacheSize"`
	Debug             bool `mapstructure:"debug"`
}

func loadConfig() (Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}

// newLogger writes to stderr, stdout is reserved for command output.
func newLogger(debug bool) (log.Logger, func(), error) {
	zapConfig := zap.NewProductionConfig()
	if debug {
		zapConfig = zap.NewDevelopmentConfig()
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, nil, err
	}

	return log.NewZapLogger(logger, log.DebugLevel), func() {
		_ = logger.Sync()
	}, nil
}
