// Package mongo connects to MongoDB with environment-driven configuration.
//
// New retries the initial connection and ping a configurable number of
// times, which covers the window where the database container starts after
// the service. Healthcheck returns a ping function for readiness probes.
//
//	db, err := mongo.NewWithDatabase(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer db.Client().Disconnect(context.Background())
//
//	storage := notifications.NewMongoStorage(db)
//	repo := maintenance.NewMongoRepository(db)
//
// Connection failures are reported as ErrFailedToConnectToMongo joined
// with the last driver error.
package mongo
