// Package config loads application settings from defaults, an optional YAML
// file and the environment, in that order of precedence (later wins).
//
//	cfg, err := config.Load(os.Getenv("SHIPY_CONFIG"))
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// A .env file in the working directory is exported before the environment is
// read. Variables already present in the process environment are kept.
//
// The YAML keys mirror the struct tags on Config:
//
//	debug: true
//	addr: ":8080"
//	error_templates: [app/views/errors, shared/errors]
package config
