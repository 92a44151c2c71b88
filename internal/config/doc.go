// Package config loads process settings from the environment and an optional .env file.
package config
