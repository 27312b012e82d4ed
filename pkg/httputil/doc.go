// Package httputil provides retry and status handling for outbound HTTP
// calls, currently the assistant's chat-completions client.
//
// # Retry
//
// [Retry] runs an operation with exponential backoff. Only errors wrapped in
// [RetryableError] are retried; everything else is returned at once:
//
//	err := httputil.Retry(ctx, 3, time.Second, func() error {
//	    resp, err := client.Do(req)
//	    if err != nil {
//	        return &httputil.RetryableError{Err: err}
//	    }
//	    defer resp.Body.Close()
//	    return httputil.CheckStatus(resp)
//	})
//
// [CheckStatus] classifies responses: 429 and 5xx are retryable, other
// non-2xx statuses are not. A 429 carries its Retry-After hint as an
// [errors.RateLimitedError].
//
// [errors.RateLimitedError]: github.com/matzehuels/labforge/pkg/errors.RateLimitedError
package httputil
