// Package ratelimiter implements token buckets.
//
// A Bucket starts full with Capacity tokens and gains RefillRate tokens every
// RefillInterval, never exceeding Capacity:
//
//	b, err := ratelimiter.NewBucket(ratelimiter.Config{
//		Capacity:       20,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	if !b.Allow() {
//		// drop the request
//	}
//
// Buckets are meant to be owned by whatever they limit, for example one per
// WebSocket connection, and are collected along with it.
package ratelimiter
