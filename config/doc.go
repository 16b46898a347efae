// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config provides declarative, environment variable backed configuration.
//
// Every setting is a Field: a Var describing the variable plus a Reader
// built from small layers applied to the raw variable value. A struct of
// fields is the configuration; checking it reads every field and reports
// all missing or invalid variables at once instead of failing on first access.
//
// # Core Concepts
//
// Value[T] represents a configuration value that may or may not be set. This distinguishes
// between "not set" and "set to zero value", which is important for configuration with defaults.
//
// Reader[T] is an interface for reading configuration values. Readers are composable and
// can be chained together using layers like FileContent, Parse, Default, Validate and Cached.
//
// # Declaring a configuration
//
//	type DB struct {
//	    URL *config.Field[string]
//	}
//
//	type AppConfig struct {
//	    DB      DB
//	    Port    *config.Field[int]
//	    Timeout *config.Field[time.Duration]
//	}
//
//	cfg := AppConfig{
//	    DB: DB{
//	        URL: config.NewField(
//	            config.Var{Name: "DB_URL_FILE", Description: "File containing the database URL", Secret: true},
//	            func(r config.Reader[string]) config.Reader[string] {
//	                return config.Cached(config.TrimSpace(config.FileContent(r)))
//	            },
//	        ),
//	    },
//	    Port: config.NewField(
//	        config.Var{Name: "PORT", Description: "Port to listen on", DefaultText: "8080"},
//	        func(r config.Reader[string]) config.Reader[int] {
//	            return config.Default(8080, config.Validate(config.IntFromString(r), "min=1,max=65535"))
//	        },
//	    ),
//	    Timeout: config.NewField(
//	        config.Var{Name: "TIMEOUT", Description: "Request timeout"},
//	        config.DurationFromString,
//	    ),
//	}
//
//	err := config.Init(ctx, &cfg)
//
// If any variable is missing or invalid, err is an *InitError whose message
// lists every incorrect variable, every valid one and the description of all
// expected variables:
//
//	Error during configuration initialization:
//	Got 1 incorrect variable
//	- `TIMEOUT`: value not set
//	Got 2 valid variables
//	- `DB_URL_FILE`
//	- `PORT`
//	Full required environment description:
//	- `TIMEOUT`: Request timeout
//	- `DB_URL_FILE`: File containing the database URL
//	- `PORT`: Port to listen on (default: 8080)
//
// # Error Handling
//
// Readers distinguish between three states:
//   - Value is set (returns Value with set=true)
//   - Value is not set (returns Value with set=false, no error)
//   - Error occurred (returns error)
//
// The Read function converts "not set" to ErrValueNotSet for convenience.
// Default only replaces unset values, so a present but malformed variable is
// still reported. OrElse replaces any failure.
//
// # Environments
//
// Env looks variables up in the Environ carried by the context, the process
// environment by default. Use WithEnviron with a Map, FromYaml, FromJson or
// Layered to resolve a configuration against something else, e.g. in tests.
package config
