// Package validation checks configuration structs and lookup requests.
//
// Struct tag validation uses go-playground/validator and reports field names
// by their mapstructure (config file) keys:
//
//	type Config struct {
//	    PageSize int `mapstructure:"page_size" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg)
//
// Programmatic validation collects field errors:
//
//	err := validation.New().
//	    Required("term", req.Term).
//	    Min("page", req.Page, 1).
//	    Error()
package validation
