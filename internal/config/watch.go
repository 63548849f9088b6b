package config

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StartWatcher watches the config file for changes and invokes onReload with
// the freshly loaded configuration whenever it changes on disk. The reload uses
// the same Load path as startup, so a file that fails validation is rejected
// and the previous settings stay in effect.
//
// Only a subset of settings can take effect without a restart (the log level,
// notification toggles); onReload decides what to apply. When no config file
// exists the watcher is a no-op: environment-only deployments have nothing to
// watch.
func StartWatcher(configPath string, onReload func(*Config)) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/asset-admin")
	}

	if err := v.ReadInConfig(); err != nil {
		slog.Debug("config watcher disabled: no config file", "error", err)
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		slog.Info("config file changed, reloading", "file", e.Name, "op", e.Op.String())
		cfg, err := Load(configPath)
		if err != nil {
			slog.Warn("config reload rejected, keeping previous settings", "error", err)
			return
		}
		onReload(cfg)
	})
	v.WatchConfig()
	slog.Info("config file watcher started", "file", v.ConfigFileUsed())
}
