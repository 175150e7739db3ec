// Package logger builds the storefront's *slog.Logger and holds the
// attribute helpers every package logs with.
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "sprayshop"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "signed in", logger.UserID(id.ID))
//
// Development gets text output at debug level; staging and production get
// JSON at info level. Context extractors run on every record, so values
// stored in the request context show up without passing them around.
//
// Components accept a logger through a WithLogger option and fall back to
// Discard. Error and the id helpers return an empty attribute for zero
// values, which slog drops.
package logger
