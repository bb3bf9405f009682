// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hostpack

import (
	"context"
	"sort"
	"strings"

	"terraform-provider-ucs/internal/ucsm"
)

// ObservedState is a host firmware package as currently configured on UCS Manager.
type ObservedState struct {
	Dn                      string
	Name                    string
	Descr                   string
	BladeBundleVersion      string
	RackBundleVersion       string
	ExcludeServerComponents []string
}

// Observe reads the package named name together with its excluded components.
// It returns nil without error when the package does not exist.
func Observe(ctx context.Context, store Store, name string) (*ObservedState, error) {
	dn := PackDn(name)
	mo, err := store.QueryDn(ctx, dn)
	if err != nil {
		return nil, &RemoteOperationError{Op: "lookup", Dn: dn, Err: err}
	}
	if mo == nil {
		return nil, nil
	}

	children, err := store.QueryChildren(ctx, mo, ucsm.ClassFirmwareExcludeServerComponent)
	if err != nil {
		return nil, &RemoteOperationError{Op: "query children", Dn: dn, Err: err}
	}

	observed := &ObservedState{
		Dn:                      mo.Dn,
		Name:                    mo.Get("name"),
		Descr:                   mo.Get("descr"),
		BladeBundleVersion:      mo.Get("bladeBundleVersion"),
		RackBundleVersion:       mo.Get("rackBundleVersion"),
		ExcludeServerComponents: make([]string, 0, len(children)),
	}
	if observed.Name == "" {
		observed.Name = name
	}
	for _, child := range children {
		observed.ExcludeServerComponents = append(observed.ExcludeServerComponents, componentName(child))
	}
	sort.Strings(observed.ExcludeServerComponents)
	return observed, nil
}

// componentName returns the excluded component of child, falling back to its rn
// when the serverComponent attribute is not reported.
func componentName(child *ucsm.ManagedObject) string {
	if c := child.Get("serverComponent"); c != "" {
		return c
	}
	return strings.TrimPrefix(child.Rn(), componentRnPrefix)
}
