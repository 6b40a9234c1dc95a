// Package logger builds the service's *slog.Logger.
//
// New wraps a text or json slog handler with LogHandlerDecorator, which runs
// registered ContextExtractor callbacks on every record so request-scoped
// values such as the request id and the current tenant show up without being
// passed explicitly:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Parse(cfg.AppEnv), "servicebond"),
//		logger.WithDebug(cfg.Debug),
//		logger.WithContextExtractors(
//			requestid.LoggerExtractor(),
//			tenant.LoggerExtractor(),
//		),
//	)
//
// Attribute helpers (Error, TenantID, Subspace, State, ...) keep key names
// consistent across packages. Error and Errors return an empty Attr for nil
// errors, so they can be passed unconditionally.
package logger
