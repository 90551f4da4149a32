package redisrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/oauthgate/pkg/directory"
)

// Client calls the directory over Redis lists: it pushes a request onto the
// shared queue and blocks on a per-request reply list.
type Client struct {
	rdb         redis.Cmdable
	queue       string
	replyPrefix string
	timeout     time.Duration
}

var _ directory.Client = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithQueue sets the request queue key.
func WithQueue(key string) ClientOption {
	return func(c *Client) {
		if key != "" {
			c.queue = key
		}
	}
}

// WithReplyPrefix sets the prefix of per-request reply keys.
func WithReplyPrefix(prefix string) ClientOption {
	return func(c *Client) {
		if prefix != "" {
			c.replyPrefix = prefix
		}
	}
}

// WithTimeout bounds the wait for a reply when ctx has no earlier deadline.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a directory client.
func NewClient(rdb redis.Cmdable, opts ...ClientOption) *Client {
	c := &Client{
		rdb:         rdb,
		queue:       defaultRequestQueue,
		replyPrefix: defaultReplyPrefix,
		timeout:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCreateUser implements directory.Client. Transport failures and
// timeouts match directory.ErrUnavailable.
func (c *Client) GetOrCreateUser(ctx context.Context, email, name string) (*directory.User, error) {
	data, err := json.Marshal(getOrCreateUserData{Email: email, Name: name})
	if err != nil {
		return nil, errors.Join(directory.ErrInvalidRequest, err)
	}

	id := uuid.NewString()
	req := request{
		ID:      id,
		Pattern: PatternGetOrCreateUser,
		ReplyTo: c.replyPrefix + id,
		Data:    data,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Join(directory.ErrInvalidRequest, err)
	}

	wait := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		wait = min(wait, time.Until(deadline))
	}
	if wait <= 0 {
		return nil, errors.Join(directory.ErrUnavailable, context.DeadlineExceeded)
	}

	if err := c.rdb.LPush(ctx, c.queue, payload).Err(); err != nil {
		return nil, errors.Join(directory.ErrUnavailable, err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	res, err := c.rdb.BLPop(waitCtx, blockTimeout(wait), req.ReplyTo).Result()
	if errors.Is(err, redis.Nil) {
		return nil, errors.Join(directory.ErrUnavailable, fmt.Errorf("no reply within %s", wait))
	}
	if err != nil {
		return nil, errors.Join(directory.ErrUnavailable, err)
	}
	if len(res) != 2 {
		return nil, errors.Join(directory.ErrUnavailable, ErrMalformed)
	}

	var rep reply
	if err := json.Unmarshal([]byte(res[1]), &rep); err != nil || rep.ID != id {
		return nil, errors.Join(directory.ErrUnavailable, ErrMalformed)
	}

	if rep.Error != nil {
		remote := fmt.Errorf("%w: %s", ErrRemote, rep.Error.Message)
		if rep.Error.Code == codeInvalidRequest {
			return nil, errors.Join(directory.ErrInvalidRequest, remote)
		}
		return nil, errors.Join(directory.ErrUnavailable, remote)
	}
	if rep.User == nil || rep.User.ExternalID == "" {
		return nil, errors.Join(directory.ErrUnavailable, ErrMalformed)
	}

	return rep.User, nil
}

// blockTimeout rounds d up to whole seconds, the resolution BLPOP is sent
// with. The caller's context still bounds the actual wait.
func blockTimeout(d time.Duration) time.Duration {
	if rounded := d.Truncate(time.Second); rounded < d {
		return rounded + time.Second
	}
	return d
}
