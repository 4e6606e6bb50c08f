package mongo

import "errors"

var (
	ErrFailedToConnectToMongo = errors.New("failed to connect to mongo")
	ErrEmptyConnectionURL     = errors.New("mongo connection url is empty")
	ErrHealthcheckFailed      = errors.New("mongo healthcheck failed")
)
