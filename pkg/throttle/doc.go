// Package throttle limits repeated failures per client, such as failed logins.
//
// A [Limiter] counts failures in a [Store]. [Memory] suits a single process;
// [Redis] shares counters between instances.
//
//	lim := throttle.New(throttle.NewRedis(client))
//
//	if blocked, _ := lim.Exceeded(ctx, ip); blocked {
//	    // reject without checking the password
//	}
//	if !auth.CheckPassword(pw, user.Hash) {
//	    lim.Fail(ctx, ip)
//	    ...
//	}
//	lim.Reset(ctx, ip)
package throttle
