package app

import "errors"

var (
	ErrUnknownStore  = errors.New("app: unknown notifications store")
	ErrMongoRequired = errors.New("app: mongo notifications store requires MONGODB_URL")
)
