package redisconn_test

import (
	"errors"
	"testing"

	"github.com/garyburd/redigo/redis"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/reddit/redispool/redisconn"
)

func TestReplyOK(t *testing.T) {
	for _, c := range []struct {
		label string
		reply redisconn.Reply
		want  bool
	}{
		{
			label: "status-OK",
			reply: redisconn.Reply{Kind: redisconn.KindStatus, Str: "OK"},
			want:  true,
		},
		{
			label: "status-ok-lowercase",
			reply: redisconn.Reply{Kind: redisconn.KindStatus, Str: "ok"},
			want:  true,
		},
		{
			label: "status-oK-mixed",
			reply: redisconn.Reply{Kind: redisconn.KindStatus, Str: "oK"},
			want:  true,
		},
		{
			label: "status-other",
			reply: redisconn.Reply{Kind: redisconn.KindStatus, Str: "QUEUED"},
			want:  false,
		},
		{
			label: "string",
			reply: redisconn.Reply{Kind: redisconn.KindString, Str: "v"},
			want:  true,
		},
		{
			label: "empty-array",
			reply: redisconn.Reply{Kind: redisconn.KindArray},
			want:  true,
		},
		{
			label: "integer-zero",
			reply: redisconn.Reply{Kind: redisconn.KindInteger, Int: 0},
			want:  true,
		},
		{
			label: "nil",
			reply: redisconn.Reply{Kind: redisconn.KindNil},
			want:  false,
		},
		{
			label: "error",
			reply: redisconn.Reply{Kind: redisconn.KindError, Str: "ERR wrong type"},
			want:  false,
		},
		{
			label: "null",
			reply: redisconn.Reply{Kind: redisconn.KindNull, Err: errors.New("EOF")},
			want:  false,
		},
		{
			label: "unknown",
			reply: redisconn.Reply{Kind: redisconn.KindUnknown},
			want:  false,
		},
	} {
		t.Run(c.label, func(t *testing.T) {
			if got := c.reply.OK(); got != c.want {
				t.Errorf("%+v.OK() got %v, want %v", c.reply, got, c.want)
			}
		})
	}
}

func TestReplyPairs(t *testing.T) {
	str := func(s string) redisconn.Reply {
		return redisconn.Reply{Kind: redisconn.KindString, Str: s}
	}

	for _, c := range []struct {
		label string
		reply redisconn.Reply
		want  map[string]string
	}{
		{
			label: "even",
			reply: redisconn.Reply{
				Kind:  redisconn.KindArray,
				Elems: []redisconn.Reply{str("f1"), str("v1"), str("f2"), str("v2")},
			},
			want: map[string]string{"f1": "v1", "f2": "v2"},
		},
		{
			label: "odd",
			reply: redisconn.Reply{
				Kind:  redisconn.KindArray,
				Elems: []redisconn.Reply{str("f1"), str("v1"), str("f2")},
			},
			want: map[string]string{},
		},
		{
			label: "empty",
			reply: redisconn.Reply{Kind: redisconn.KindArray},
			want:  map[string]string{},
		},
		{
			label: "not-array",
			reply: str("f1"),
			want:  map[string]string{},
		},
	} {
		t.Run(c.label, func(t *testing.T) {
			got := c.reply.Pairs()
			if got == nil {
				t.Fatal("Pairs() returned nil map")
			}
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Errorf("Pairs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExecuteReplyKinds(t *testing.T) {
	transportErr := errors.New("read: connection reset by peer")

	for _, c := range []struct {
		label string
		value interface{}
		err   error
		want  redisconn.Reply
	}{
		{
			label: "status",
			value: "PONG",
			want:  redisconn.Reply{Kind: redisconn.KindStatus, Str: "PONG"},
		},
		{
			label: "bulk",
			value: []byte("bar"),
			want:  redisconn.Reply{Kind: redisconn.KindString, Str: "bar"},
		},
		{
			label: "integer",
			value: int64(42),
			want:  redisconn.Reply{Kind: redisconn.KindInteger, Int: 42},
		},
		{
			label: "nil",
			value: nil,
			want:  redisconn.Reply{Kind: redisconn.KindNil},
		},
		{
			label: "server-error",
			err:   redis.Error("ERR unknown command"),
			want:  redisconn.Reply{Kind: redisconn.KindError, Str: "ERR unknown command"},
		},
		{
			label: "transport-error",
			err:   transportErr,
			want:  redisconn.Reply{Kind: redisconn.KindNull, Err: transportErr},
		},
		{
			label: "array",
			value: []interface{}{[]byte("a"), int64(1), nil, redis.Error("ERR")},
			want: redisconn.Reply{
				Kind: redisconn.KindArray,
				Elems: []redisconn.Reply{
					{Kind: redisconn.KindString, Str: "a"},
					{Kind: redisconn.KindInteger, Int: 1},
					{Kind: redisconn.KindNil},
					{Kind: redisconn.KindError, Str: "ERR"},
				},
			},
		},
		{
			label: "unknown",
			value: 3.14,
			want:  redisconn.Reply{Kind: redisconn.KindUnknown},
		},
	} {
		t.Run(c.label, func(t *testing.T) {
			session := &fakeSession{
				do: func(cmd string, args ...interface{}) (interface{}, error) {
					if cmd == "SELECT" {
						return "OK", nil
					}
					return c.value, c.err
				},
			}
			conn := redisconn.New(redisconn.Config{Dialer: session.dial})
			if err := conn.Connect(); err != nil {
				t.Fatalf("Connect returned error: %v", err)
			}
			got := conn.Execute("TEST")
			if diff := cmp.Diff(c.want, got, cmpopts.EquateErrors()); diff != "" {
				t.Errorf("Execute mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
