// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"sync"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Changes against one UCS Manager domain are serialized, while different
// domains are handled in parallel. The pool keeps one mutex per endpoint.
type SyncPool struct {
	lock sync.Mutex
	pool map[string]*sync.Mutex
}

var mutexPool = NewSyncPool()

func NewSyncPool() *SyncPool {
	return &SyncPool{
		pool: make(map[string]*sync.Mutex),
	}
}

func (sp *SyncPool) getEndpointMutex(endpoint string) *sync.Mutex {
	sp.lock.Lock()
	defer sp.lock.Unlock()

	mutex, ok := sp.pool[endpoint]
	if !ok {
		mutex = &sync.Mutex{}
		sp.pool[endpoint] = mutex
	}
	return mutex
}

func (sp *SyncPool) Lock(ctx context.Context, endpoint string, resource string) {
	fields := map[string]interface{}{"endpoint": endpoint, "resource": resource}
	tflog.Debug(ctx, "Waiting for endpoint lock", fields)

	sp.getEndpointMutex(endpoint).Lock()

	tflog.Debug(ctx, "Endpoint lock acquired", fields)
}

func (sp *SyncPool) Unlock(ctx context.Context, endpoint string, resource string) {
	sp.getEndpointMutex(endpoint).Unlock()

	tflog.Debug(ctx, "Endpoint lock released", map[string]interface{}{"endpoint": endpoint, "resource": resource})
}
