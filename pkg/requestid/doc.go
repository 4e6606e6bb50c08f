// Package requestid assigns a correlation id to every HTTP request.
//
// Middleware reads X-Request-ID from the request, replacing it with a new
// UUID when missing or malformed, and stores it in the request context.
// LoggerExtractor plugs into logger.WithContextExtractors so that every
// record logged with that context carries "request_id".
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
