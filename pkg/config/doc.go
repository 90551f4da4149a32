// Package config loads typed configuration from environment variables.
//
// It reads an optional .env file with github.com/joho/godotenv and parses the
// environment into tagged structs with github.com/caarlos0/env/v11. Every
// package that needs settings owns a Config struct; binaries compose them:
//
//	type appConfig struct {
//		HTTP    httpserver.Config
//		Session jwt.Config
//	}
//
//	var cfg appConfig
//	config.MustLoad(&cfg)
//
// Each struct type is parsed once per process. Tests that change the
// environment call Reset between loads.
package config
