package config

// AppConfig bundles everything the custody server reads from the
// environment at boot.
type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

// LoadApp parses the whole server environment in one call so main has
// a single failure point before the logger is wired up.
func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server: serverCfg,
		Log:    logCfg,
	}, nil
}
