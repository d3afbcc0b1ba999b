// Package resilience groups the fault-tolerance helpers wrapped around model calls.
//
//   - circuitbreaker: trips after a failure ratio so a dead inference backend fails fast
//   - retry: exponential backoff with jitter; summarizers default to a single attempt
//
//	cb := circuitbreaker.New(circuitbreaker.SummarizerConfig("huggingface"))
//	summary, err := retry.Do(ctx, retry.NoRetryConfig(), func() (string, error) {
//	    res, err := cb.Execute(call)
//	    if err != nil {
//	        return "", err
//	    }
//	    return res.(string), nil
//	})
package resilience
