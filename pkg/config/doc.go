// Package config loads typed configuration from environment variables.
//
// Each package that needs settings owns a struct with `env` tags
// (pg.Config, redis.Config, httpserver.Config, ...) and the binary loads them
// at startup:
//
//	var dbCfg pg.Config
//	if err := config.Load(&dbCfg); err != nil {
//		return err
//	}
//
// Parsing is done by github.com/caarlos0/env/v11. A .env file in the working
// directory is loaded once through github.com/joho/godotenv. Results are
// cached per struct type, so calling Load for the same type from several
// places is cheap and returns identical values.
package config
