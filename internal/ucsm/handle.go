// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ucsm

import (
	"context"
	"fmt"
)

// Handle buffers configuration changes on top of a Client. AddMo and RemoveMo only
// stage changes, Commit sends everything staged so far in one configConfMos call.
type Handle struct {
	client  *Client
	pending []*ManagedObject
}

func NewHandle(client *Client) *Handle {
	return &Handle{client: client}
}

// QueryDn returns the object located at dn or nil if it does not exist.
func (h *Handle) QueryDn(ctx context.Context, dn string) (*ManagedObject, error) {
	return h.client.ResolveDn(ctx, dn)
}

// QueryChildren returns children of parent having given class.
func (h *Handle) QueryChildren(ctx context.Context, parent *ManagedObject, classID string) ([]*ManagedObject, error) {
	if parent == nil {
		return nil, fmt.Errorf("ucsm: query children of nil object")
	}
	return h.client.ResolveChildren(ctx, parent.Dn, classID)
}

// AddMo stages creation of mo. With modifyPresent set an existing object is
// modified instead of failing the commit.
func (h *Handle) AddMo(mo *ManagedObject, modifyPresent bool) error {
	if mo == nil || mo.Dn == "" {
		return fmt.Errorf("ucsm: cannot add object without dn")
	}
	staged := mo.Clone()
	staged.Status = StatusCreated
	if modifyPresent {
		staged.Status = StatusCreatedModified
	}
	h.stage(staged)
	return nil
}

// RemoveMo stages deletion of mo.
func (h *Handle) RemoveMo(mo *ManagedObject) error {
	if mo == nil || mo.Dn == "" {
		return fmt.Errorf("ucsm: cannot remove object without dn")
	}
	staged := NewManagedObject(mo.ClassID, mo.Dn, nil)
	staged.Status = StatusDeleted
	h.stage(staged)
	return nil
}

// Pending returns number of staged changes.
func (h *Handle) Pending() int { return len(h.pending) }

// Commit sends staged changes. The buffer is discarded whether or not the commit succeeds.
func (h *Handle) Commit(ctx context.Context) error {
	if len(h.pending) == 0 {
		return nil
	}
	mos := h.pending
	h.pending = nil
	_, err := h.client.ConfMos(ctx, mos)
	return err
}

// stage replaces a previously staged change of the same dn.
func (h *Handle) stage(mo *ManagedObject) {
	for i, p := range h.pending {
		if p.Dn == mo.Dn {
			h.pending[i] = mo
			return
		}
	}
	h.pending = append(h.pending, mo)
}
