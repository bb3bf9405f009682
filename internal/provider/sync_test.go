// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestSyncPool(t *testing.T) {
	pool := NewSyncPool()
	var sum int = 0
	var items int = 50

	t.Run("MutexTests", func(t *testing.T) {
		wg := &sync.WaitGroup{}
		wg.Add(items)

		for i := 0; i < items; i++ {
			go func() {
				defer wg.Done()
				pool.Lock(context.TODO(), "ucsm-a", "test")
				defer pool.Unlock(context.TODO(), "ucsm-a", "test")
				sum += 1
			}()
		}

		wg.Wait()

		if sum-items != 0 {
			t.Errorf("Got %d, expected %d", sum, items)
		}
	})

	t.Run("IndependentEndpoints", func(t *testing.T) {
		pool.Lock(context.TODO(), "ucsm-a", "test")
		defer pool.Unlock(context.TODO(), "ucsm-a", "test")

		done := make(chan struct{})
		go func() {
			pool.Lock(context.TODO(), "ucsm-b", "test")
			pool.Unlock(context.TODO(), "ucsm-b", "test")
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Errorf("lock of ucsm-b blocked by lock of ucsm-a")
		}
	})
}
