// Package config provides loading, validation, environment overlay and hot
// reload for nidsmon configuration. It exposes a Default() baseline; files
// may be JSON or YAML.
//
// Example:
//
//	cfg := config.Default()
//	if path := config.DefaultConfigPath(); path != "" {
//	    if fileCfg, err := config.Load(path); err == nil {
//	        cfg = fileCfg
//	    }
//	}
//	config.FromEnv(&cfg)
//	if err := cfg.Validate(); err != nil { ... }
//	rt, _ := runtime.Open(runtime.Options{Config: cfg})
//	defer rt.Close()
package config
