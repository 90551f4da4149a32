package redisrpc

import "time"

// Config is shared by both ends of the directory queue.
type Config struct {
	Queue    string        `env:"DIRECTORY_QUEUE" envDefault:"directory:requests"`
	Timeout  time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"5s"`
	Workers  int           `env:"DIRECTORY_WORKERS" envDefault:"4"`
	ReplyTTL time.Duration `env:"DIRECTORY_REPLY_TTL" envDefault:"30s"`
}

// ClientOptions returns the client options described by cfg.
func (c Config) ClientOptions() []ClientOption {
	return []ClientOption{WithQueue(c.Queue), WithTimeout(c.Timeout)}
}

// ServerOptions returns the server options described by cfg.
func (c Config) ServerOptions() []ServerOption {
	return []ServerOption{
		WithServerQueue(c.Queue),
		WithWorkers(c.Workers),
		WithReplyTTL(c.ReplyTTL),
		WithHandlerTimeout(c.Timeout),
	}
}
