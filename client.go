package plexus

import (
	"context"
	"io"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/syssam/plexus/query"
	"github.com/syssam/plexus/schema"
)

// Transport executes one wire request and returns the raw response document.
// Users should implement this interface with their preferred HTTP stack and
// retry/timeout policy; HTTPTransport is the stock implementation.
//
// The engine builds the full request document before calling Execute and
// applies the response only after it returns, so a failed Execute leaves the
// record graph exactly as it was.
type Transport interface {
	// Execute performs verb against url with doc as the request body.
	// doc is nil for reads and deletes.
	Execute(ctx context.Context, verb, url string, doc *Document) (*Document, error)
}

// TransportFunc is an adapter to allow ordinary functions to be used as a
// Transport.
type TransportFunc func(ctx context.Context, verb, url string, doc *Document) (*Document, error)

// Execute calls f(ctx, verb, url, doc).
func (f TransportFunc) Execute(ctx context.Context, verb, url string, doc *Document) (*Document, error) {
	return f(ctx, verb, url, doc)
}

// Client ties a schema registry to a transport and drives the save protocol:
// payload build, round-trip, response application onto the same record
// instances.
type Client struct {
	reg       *schema.Registry
	transport Transport
	baseURL   string
	logger    *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL prefixes every request URL with the given base.
func WithBaseURL(base string) ClientOption {
	return func(c *Client) { c.baseURL = base }
}

// WithLogger routes request logging through the given logger. The default
// logger is silent.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a Client over the given registry and transport.
func NewClient(reg *schema.Registry, transport Transport, opts ...ClientOption) *Client {
	c := &Client{
		reg:       reg,
		transport: transport,
		logger:    log.NewWithOptions(io.Discard, log.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Save persists rec and the sub-graph selected by the include directive in a
// single atomic write. An unpersisted rec is POSTed to the collection
// endpoint; a persisted one is PATCHed to its resource URL. The server's
// response is applied back onto the very same record instances with the
// include directive doubling as the destroy/disassociate pruning scope, and
// correlation identifiers on now-persisted records are discarded.
//
// A save with no in-scope changes still executes; root attributes and id are
// always sent. While a save is in flight the caller must not mutate any
// record in the payload.
func (c *Client) Save(ctx context.Context, rec *Record, include Include) error {
	doc, err := BuildPayload(rec, include)
	if err != nil {
		return err
	}
	verb := http.MethodPost
	url := c.baseURL + rec.Schema().Path()
	if rec.Persisted() {
		verb = http.MethodPatch
		url += "/" + rec.ID()
	}
	c.logger.Debug("saving record graph",
		"verb", verb, "url", url, "type", rec.Type(), "included", len(doc.Included))
	resp, err := c.transport.Execute(ctx, verb, url, doc)
	if err != nil {
		return NewTransportError(verb, url, err)
	}
	if resp == nil {
		// Bodyless success; nothing to reconcile.
		return nil
	}
	_, err = Apply(rec, resp, c.reg, include)
	return err
}

// Find fetches a single resource by type and id. scope may carry sparse
// fieldsets, includes, and the like; it is rendered to the query string
// untouched.
func (c *Client) Find(ctx context.Context, typ, id string, scope *query.Scope) (*Record, error) {
	res, ok := c.reg.Lookup(typ)
	if !ok {
		return nil, NewUnknownResourceTypeError(typ)
	}
	url := c.baseURL + res.Path() + "/" + id + queryString(scope)
	c.logger.Debug("fetching record", "url", url, "type", typ)
	resp, err := c.transport.Execute(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewTransportError(http.MethodGet, url, err)
	}
	return Apply(nil, resp, c.reg, nil)
}

// FindAll fetches a resource collection.
func (c *Client) FindAll(ctx context.Context, typ string, scope *query.Scope) ([]*Record, error) {
	res, ok := c.reg.Lookup(typ)
	if !ok {
		return nil, NewUnknownResourceTypeError(typ)
	}
	url := c.baseURL + res.Path() + queryString(scope)
	c.logger.Debug("fetching record collection", "url", url, "type", typ)
	resp, err := c.transport.Execute(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewTransportError(http.MethodGet, url, err)
	}
	return ApplyMany(nil, resp, c.reg, nil)
}

// Destroy deletes a persisted record server-side. On success the record is
// flipped back to unpersisted; its attributes are left for the caller.
func (c *Client) Destroy(ctx context.Context, rec *Record) error {
	url := c.baseURL + rec.Schema().Path() + "/" + rec.ID()
	c.logger.Debug("destroying record", "url", url, "type", rec.Type())
	if _, err := c.transport.Execute(ctx, http.MethodDelete, url, nil); err != nil {
		return NewTransportError(http.MethodDelete, url, err)
	}
	rec.SetPersisted(false)
	rec.Unmark()
	return nil
}

func queryString(scope *query.Scope) string {
	if scope == nil {
		return ""
	}
	if qs := scope.Encode(); qs != "" {
		return "?" + qs
	}
	return ""
}
