// internal/app/system/txn/txn.go

// Package txn wraps multi-document MongoDB transactions with a
// fallback for deployments that cannot run them (standalone mongod,
// old server versions). Callers write the transactional path once;
// when the server rejects sessions or transactions, the same callback
// runs unwrapped and unique indexes remain the last line of defense.
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a session transaction on client.
// fn receives a context bound to the session; every store call made
// with it joins the transaction. On servers without transaction
// support, fn runs once with the original context instead.
//
// The error returned by fn passes through unchanged, so sentinel
// errors still match with errors.Is at the caller.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	sess, err := client.StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fn(ctx)
	}
	return err
}

// Server error codes that indicate transactions are unavailable:
// 20 IllegalOperation (standalone), 51 and 263 variants reported by
// older servers and serverless tiers.
var notSupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

// IsNotSupported reports whether err means the deployment cannot run
// multi-document transactions, as opposed to the transaction failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "illegal operation"):
		return true
	case strings.Contains(msg, "transaction") &&
		(strings.Contains(msg, "replica set") || strings.Contains(msg, "session")):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	}
	return false
}
