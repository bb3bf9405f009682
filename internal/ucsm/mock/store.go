// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package mock provides an in-memory UCS Manager object store for tests.
package mock

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"terraform-provider-ucs/internal/ucsm"
)

// Store keeps managed objects in memory. Like ucsm.Handle, AddMo and RemoveMo
// only stage changes which become visible after Commit.
type Store struct {
	mu      sync.Mutex
	objects map[string]*ucsm.ManagedObject
	pending []*ucsm.ManagedObject

	// Events records every call made against the store.
	Events []Event

	// Fail is consulted before every call. A non-nil error is returned to the
	// caller and the call has no effect. The event is recorded either way.
	Fail func(ev Event) error
}

// An Event describes a single call made against the store.
type Event struct {
	Method string // QueryDn / QueryChildren / AddMo / RemoveMo / Commit
	Dn     string
	Class  string
	Status string
}

// Seed adds objects directly, bypassing staging and event recording.
func (s *Store) Seed(mos ...*ucsm.ManagedObject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	for _, mo := range mos {
		c := mo.Clone()
		c.Status = ""
		s.objects[c.Dn] = c
	}
}

// Get returns a copy of the object at dn without recording an event.
func (s *Store) Get(dn string) *ucsm.ManagedObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	mo, ok := s.objects[dn]
	if !ok {
		return nil
	}
	return mo.Clone()
}

// Children returns copies of direct children of dn, sorted by dn, without
// recording an event. Empty classID matches every class.
func (s *Store) Children(dn, classID string) []*ucsm.ManagedObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.children(dn, classID)
}

// Mutations returns recorded events which change the store.
func (s *Store) Mutations() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.Events {
		switch ev.Method {
		case "AddMo", "RemoveMo", "Commit":
			out = append(out, ev)
		}
	}
	return out
}

// ResetEvents clears recorded events.
func (s *Store) ResetEvents() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = nil
}

func (s *Store) QueryDn(ctx context.Context, dn string) (*ucsm.ManagedObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Event{Method: "QueryDn", Dn: dn}); err != nil {
		return nil, err
	}
	mo, ok := s.objects[dn]
	if !ok {
		return nil, nil
	}
	return mo.Clone(), nil
}

func (s *Store) QueryChildren(ctx context.Context, parent *ucsm.ManagedObject, classID string) ([]*ucsm.ManagedObject, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if parent == nil {
		return nil, fmt.Errorf("mock: query children of nil object")
	}
	if err := s.record(Event{Method: "QueryChildren", Dn: parent.Dn, Class: classID}); err != nil {
		return nil, err
	}
	return s.children(parent.Dn, classID), nil
}

func (s *Store) AddMo(mo *ucsm.ManagedObject, modifyPresent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := ucsm.StatusCreated
	if modifyPresent {
		status = ucsm.StatusCreatedModified
	}
	if err := s.record(Event{Method: "AddMo", Dn: mo.Dn, Class: mo.ClassID, Status: status}); err != nil {
		return err
	}
	staged := mo.Clone()
	staged.Status = status
	s.pending = append(s.pending, staged)
	return nil
}

func (s *Store) RemoveMo(mo *ucsm.ManagedObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record(Event{Method: "RemoveMo", Dn: mo.Dn, Class: mo.ClassID, Status: ucsm.StatusDeleted}); err != nil {
		return err
	}
	staged := ucsm.NewManagedObject(mo.ClassID, mo.Dn, nil)
	staged.Status = ucsm.StatusDeleted
	s.pending = append(s.pending, staged)
	return nil
}

func (s *Store) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pending := s.pending
	s.pending = nil
	if err := s.record(Event{Method: "Commit"}); err != nil {
		return err
	}
	return s.apply(pending)
}

// Apply applies objects carrying a status immediately, as configConfMos does.
func (s *Store) Apply(mos []*ucsm.ManagedObject) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.apply(mos)
}

func (s *Store) apply(mos []*ucsm.ManagedObject) error {
	s.init()
	for _, mo := range mos {
		existing, exists := s.objects[mo.Dn]
		switch mo.Status {
		case ucsm.StatusCreated:
			if exists {
				return fmt.Errorf("mock: object %s already exists", mo.Dn)
			}
			fallthrough
		case ucsm.StatusCreatedModified, "":
			if exists {
				for k, v := range mo.Attrs {
					existing.Attrs[k] = v
				}
				continue
			}
			c := ucsm.NewManagedObject(mo.ClassID, mo.Dn, mo.Attrs)
			s.objects[c.Dn] = c
		case ucsm.StatusDeleted:
			for dn := range s.objects {
				if dn == mo.Dn || strings.HasPrefix(dn, mo.Dn+"/") {
					delete(s.objects, dn)
				}
			}
		default:
			return fmt.Errorf("mock: unsupported status %q for %s", mo.Status, mo.Dn)
		}
	}
	return nil
}

func (s *Store) children(dn, classID string) []*ucsm.ManagedObject {
	var out []*ucsm.ManagedObject
	for _, mo := range s.objects {
		if mo.ParentDn() != dn {
			continue
		}
		if classID != "" && !strings.EqualFold(mo.ClassID, classID) {
			continue
		}
		out = append(out, mo.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Dn < out[j].Dn })
	return out
}

func (s *Store) record(ev Event) error {
	s.Events = append(s.Events, ev)
	if s.Fail != nil {
		return s.Fail(ev)
	}
	return nil
}

func (s *Store) init() {
	if s.objects == nil {
		s.objects = make(map[string]*ucsm.ManagedObject)
	}
}
