package providers

import (
	"catalogd/internal/structures"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CATALOGD_LOG_LEVEL")
	viper.BindEnv("content.baseURL", "CATALOGD_CONTENT_BASE_URL")
	viper.BindEnv("content.refreshInterval", "CATALOGD_REFRESH_INTERVAL")
	viper.BindEnv("content.endingSoonDays", "CATALOGD_ENDING_SOON_DAYS")
	viper.BindEnv("persistence.saveInterval", "CATALOGD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "CATALOGD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CATALOGD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CatalogContentDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
