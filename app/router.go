package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
)

// isMsgPath is the RegExp to ensure the routes make sense
var isMsgPath = regexp.MustCompile(`^[a-z0-9_]+/[a-z0-9_]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]gringotts.Handler
	codec  *gringotts.MsgCodec
}

var _ gringotts.Registry = (*Router)(nil)
var _ gringotts.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance. Every message registered
// with a handler is registered in given codec as well.
func NewRouter(codec *gringotts.MsgCodec) *Router {
	return &Router{
		routes: make(map[string]gringotts.Handler, 16),
		codec:  codec,
	}
}

// Handle adds a new Handler for the given message. The message path is
// used as the route. Panics if another Handler was already registered.
func (r *Router) Handle(m gringotts.Msg, h gringotts.Handler) {
	path := m.Path()
	if !isMsgPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
	if r.codec != nil {
		r.codec.Register(m)
	}
}

// Handler returns the registered Handler for this path. If no path is
// found, returns a noSuchPath Handler. Always returns a non-nil Handler.
func (r *Router) Handler(path string) gringotts.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Check(ctx, info, db, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	return r.Handler(msg.Path()).Deliver(ctx, info, db, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the
// arguments.
type notFoundHandler string

func (path notFoundHandler) Check(context.Context, gringotts.BlockInfo, gringotts.KVStore, gringotts.Tx) (*gringotts.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(context.Context, gringotts.BlockInfo, gringotts.KVStore, gringotts.Tx) (*gringotts.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}
