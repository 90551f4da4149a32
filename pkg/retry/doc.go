// Package retry runs an operation several times with a backoff between attempts.
//
// It is used for idempotent upstream reads only. Calls that consume single-use
// input, such as exchanging an OAuth authorization code, must not be wrapped.
//
//	err := retry.Do(ctx, retry.DefaultAttempts, retry.DefaultBackoff(), func(ctx context.Context, attempt int) error {
//	    resp, err := fetch(ctx)
//	    if err != nil {
//	        return err
//	    }
//	    if resp.StatusCode >= 400 {
//	        if retry.IsRetryableStatus(resp.StatusCode) {
//	            return errUnexpectedStatus
//	        }
//	        return retry.Permanent(errUnexpectedStatus)
//	    }
//	    return nil
//	})
package retry
