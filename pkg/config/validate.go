package config

import (
	"cmp"
	"fmt"
)

// Positive rejects zero and negative values. It is the usual check for timeouts.
func Positive[T cmp.Ordered](v T) error {
	var zero T
	if v <= zero {
		return fmt.Errorf("must be positive, got %v", v)
	}
	return nil
}

// Between checks lo <= v <= hi.
//
//	field("request_timeout", Between(cfg.RequestTimeout, time.Second, time.Hour))
func Between[T cmp.Ordered](v, lo, hi T) error {
	switch {
	case lo > hi:
		return fmt.Errorf("empty range [%v, %v]", lo, hi)
	case v < lo:
		return fmt.Errorf("%v is below minimum %v", v, lo)
	case v > hi:
		return fmt.Errorf("%v exceeds maximum %v", v, hi)
	}
	return nil
}
