// Package push keeps the open streaming connections of every account and
// writes real-time events to them.
//
// An account may hold any number of connections, one per device or tab. A
// Registry owns a connection from Subscribe until the client goes away, the
// connection is unsubscribed, or a write to it fails. A failed write only
// drops that connection; the account's other devices still receive the
// event. Publishing to an account without connections does nothing.
//
// StreamConn adapts an http.ResponseWriter to a server-sent events stream and
// Handler wires it to a Registry:
//
//	reg := push.NewRegistry(push.WithLogger(log))
//	defer reg.Close()
//
//	go reg.RunKeepAlive(ctx)
//	mux.Handle("/events", push.Handler(reg, resolveAccount))
//
//	reg.Publish(ctx, accountID, event)
package push
