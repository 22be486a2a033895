// Package logger provides structured logging for the identity service
// using zerolog.
//
// Loggers are scoped by component and pick up the request id and trace
// context from a context.Context. Fields are passed as plain maps.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Init(cfg.Logging, "identity").WithComponent("session.registry")
//	log.WithContext(ctx).Info("Session created", map[string]interface{}{
//	    logger.FieldSessionID: logger.SessionRef(sid),
//	})
package logger
