package hashsvc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/epcis/eventhash"
	"xdao.co/epcis/storage"
)

// Client calls a remote EventHash service.
type Client struct {
	cc     *grpc.ClientConn
	client EventHashClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// MaxMsgBytes sets both send and receive limits when non-zero.
	MaxMsgBytes int
	// Timeout is the per-RPC timeout of the returned client.
	Timeout time.Duration
	// Extra options appended after the defaults.
	Extra []grpc.DialOption
}

// Dial creates a client for target. The connection is established lazily.
func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
			grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
		))
	}
	dialOpts = append(dialOpts, opts.Extra...)
	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return &Client{cc: cc, client: NewEventHashClient(cc), Timeout: opts.Timeout}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// WithRequestID attaches a correlation id that the server logs and traces.
func WithRequestID(ctx context.Context, id string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, RequestIDKey, id)
}

// Hash returns the event hash of the JSON event. The result is verified to
// be a well-formed event hash.
func (c *Client) Hash(ctx context.Context, eventJSON []byte) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Hash(ctx, wrapperspb.String(string(eventJSON)))
	if err != nil {
		return "", fromRPC(err)
	}
	if _, err := eventhash.ParseHash(reply.GetValue()); err != nil {
		return "", err
	}
	return reply.GetValue(), nil
}

// PreHash returns the pre-hash string of the JSON event.
func (c *Client) PreHash(ctx context.Context, eventJSON []byte) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.PreHash(ctx, wrapperspb.String(string(eventJSON)))
	if err != nil {
		return "", fromRPC(err)
	}
	return reply.GetValue(), nil
}

// Get returns the archived pre-hash string of an event hash and checks
// that it hashes back to the requested value.
func (c *Client) Get(ctx context.Context, eventHash string) (string, error) {
	ctx, cancel := c.ctx(ctx)
	defer cancel()
	reply, err := c.client.Get(ctx, wrapperspb.String(eventHash))
	if err != nil {
		return "", fromRPC(err)
	}
	pre := reply.GetValue()
	if eventhash.Hash(pre) != eventHash {
		return "", storage.ErrCIDMismatch
	}
	return pre, nil
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
