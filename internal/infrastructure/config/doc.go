// Package config loads and validates the spoof core's YAML configuration.
//
// Configuration is layered: hardcoded defaults, then the YAML file, then
// SPOOF_* environment variable overrides. Validation runs after all layers
// are applied so a misconfigured file fails fast at startup.
//
// # Usage
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    return err
//	}
//	log := logging.New(cfg.Logging, version)
package config
