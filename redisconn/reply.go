package redisconn

import (
	"errors"
	"strings"

	"github.com/garyburd/redigo/redis"
)

// Kind is the discriminator of a Reply.
type Kind int

// Kind values.
const (
	// KindNull means no reply was received at all (transport failure).
	KindNull Kind = iota
	KindString
	KindArray
	KindInteger
	KindNil
	KindStatus
	KindError
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	default:
		return "unknown"
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindInteger:
		return "integer"
	case KindNil:
		return "nil"
	case KindStatus:
		return "status"
	case KindError:
		return "error"
	}
}

// Reply is a raw reply from the server.
type Reply struct {
	Kind Kind

	// Str is the payload of string, status and error replies.
	Str string

	// Int is the payload of integer replies.
	Int int64

	// Elems are the sub-replies of array replies.
	Elems []Reply

	// Err is the transport error of KindNull replies.
	Err error
}

// OK reports whether the reply classifies as success.
//
// String, array and integer replies are successful,
// so is a status reply with text "OK" in any case.
// Everything else (nil, error, null and unknown replies, and any other status
// text) is a failure.
func (r Reply) OK() bool {
	switch r.Kind {
	case KindString, KindArray, KindInteger:
		return true
	case KindStatus:
		return strings.EqualFold(r.Str, "OK")
	default:
		return false
	}
}

// Pairs decodes an array reply of consecutive field/value elements into a
// map.
//
// The result is empty (but not nil) when r is not an array,
// or the array has an odd number of elements.
func (r Reply) Pairs() map[string]string {
	m := make(map[string]string, len(r.Elems)/2)
	if r.Kind != KindArray || len(r.Elems)%2 != 0 {
		return m
	}
	for i := 0; i < len(r.Elems); i += 2 {
		m[r.Elems[i].Str] = r.Elems[i+1].Str
	}
	return m
}

func newReply(v interface{}, err error) Reply {
	if err != nil {
		var serverErr redis.Error
		if errors.As(err, &serverErr) {
			return Reply{Kind: KindError, Str: string(serverErr)}
		}
		return Reply{Kind: KindNull, Err: err}
	}
	return replyFromValue(v)
}

// replyFromValue maps the value types returned by redigo to Reply kinds.
func replyFromValue(v interface{}) Reply {
	switch v := v.(type) {
	default:
		return Reply{Kind: KindUnknown}
	case nil:
		return Reply{Kind: KindNil}
	case string:
		return Reply{Kind: KindStatus, Str: v}
	case []byte:
		return Reply{Kind: KindString, Str: string(v)}
	case int64:
		return Reply{Kind: KindInteger, Int: v}
	case redis.Error:
		return Reply{Kind: KindError, Str: string(v)}
	case []interface{}:
		elems := make([]Reply, len(v))
		for i, e := range v {
			elems[i] = replyFromValue(e)
		}
		return Reply{Kind: KindArray, Elems: elems}
	}
}
