// Package redisrpc carries directory calls over Redis lists.
//
// A request is a JSON envelope pushed with LPUSH onto a shared queue
// ("directory:requests" by default):
//
//	{"id":"<uuid>","pattern":"get_or_create_user","replyTo":"directory:replies:<uuid>","data":{"email":"...","name":"..."}}
//
// Server workers pop requests with BRPOP, call the wrapped directory.Client
// and push the reply onto replyTo with a short TTL. Client waits for it with
// BLPOP, bounded by the context deadline or the configured timeout, whichever
// comes first. A missing reply surfaces as directory.ErrUnavailable; the
// caller decides whether to retry.
package redisrpc
