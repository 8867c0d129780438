// Package logger provides structured logging for searchlab using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Interactive front-ends
// that own the terminal should log to a file (output: "searchlab.log") or
// to "discard".
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "searchlab.log"
//
// # Usage
//
//	log := logger.NewDefault("searchlab").WithComponent("pipeline")
//	log.Info("lookup settled", logger.Fields("term", "rxjs", "total", 2))
package logger
