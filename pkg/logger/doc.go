// Package logger builds *slog.Logger instances with consistent attributes.
//
// New returns a logger configured by functional options: output format (text or
// json), minimum level, static attributes and ContextExtractor callbacks that
// inject request scoped values (the request id, for example) into every record
// logged with a context.
//
// Attribute helpers in attr.go keep key names consistent across packages:
//
//	log.ErrorContext(ctx, "user info fetch failed",
//	    logger.Component("oauth"),
//	    logger.Provider("google"),
//	    logger.Attempt(3),
//	    logger.Error(err),
//	)
//
// Secrets, authorization codes and tokens must never be passed to a logger.
//
// Typical setup in main:
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "authserver"),
//	    logger.WithConfig(cfg.Log),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	logger.SetAsDefault(log)
package logger
