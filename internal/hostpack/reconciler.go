// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package hostpack converges host firmware packages on UCS Manager to a desired state.
package hostpack

import (
	"context"
	"errors"
	"fmt"

	"terraform-provider-ucs/internal/ucsm"

	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Store is the subset of the UCS Manager object store used by the Reconciler.
// It is implemented by *ucsm.Handle.
type Store interface {
	QueryDn(ctx context.Context, dn string) (*ucsm.ManagedObject, error)
	QueryChildren(ctx context.Context, parent *ucsm.ManagedObject, classID string) ([]*ucsm.ManagedObject, error)
	AddMo(mo *ucsm.ManagedObject, modifyPresent bool) error
	RemoveMo(mo *ucsm.ManagedObject) error
	Commit(ctx context.Context) error
}

var _ Store = (*ucsm.Handle)(nil)

// Result of a single reconciliation. Changed reflects mutations committed
// before Err occurred, there is no rollback.
type Result struct {
	Changed bool
	Err     error
}

func (r Result) Failed() bool { return r.Err != nil }

// Msg returns the failure message or empty string on success.
func (r Result) Msg() string {
	if r.Err == nil {
		return ""
	}
	var verr *ValidationError
	if errors.As(r.Err, &verr) {
		return verr.Error()
	}
	return fmt.Sprintf("setup error: %s", r.Err)
}

// Reconciler converges one host firmware package and its excluded components.
type Reconciler struct {
	Store Store
	// CheckMode reports what would change without issuing any mutation.
	CheckMode bool
}

// Reconcile makes the remote package match desired. Each add or remove is
// committed on its own.
func (r *Reconciler) Reconcile(ctx context.Context, desired DesiredState) Result {
	desired = desired.Normalize()
	if err := desired.Validate(); err != nil {
		return Result{Err: err}
	}

	ctx = tflog.SetField(ctx, "host_firmware_package", desired.Name)
	tflog.Info(ctx, "hostpack: reconcile starts", map[string]interface{}{
		"state":      desired.Presence.String(),
		"check_mode": r.CheckMode,
	})

	changed, err := r.reconcile(ctx, desired)
	if err != nil {
		tflog.Error(ctx, "hostpack: reconcile failed", map[string]interface{}{
			"error":   err.Error(),
			"changed": changed,
		})
		return Result{Changed: changed, Err: err}
	}

	tflog.Info(ctx, "hostpack: reconcile ends", map[string]interface{}{
		"changed": changed,
	})
	return Result{Changed: changed}
}

func (r *Reconciler) reconcile(ctx context.Context, desired DesiredState) (changed bool, err error) {
	dn := PackDn(desired.Name)

	mo, err := r.Store.QueryDn(ctx, dn)
	if err != nil {
		return false, &RemoteOperationError{Op: "lookup", Dn: dn, Err: err}
	}
	exists := mo != nil

	if desired.Presence == Absent {
		if !exists {
			return false, nil
		}
		if err := r.remove(ctx, mo); err != nil {
			return false, err
		}
		return true, nil
	}

	if !exists || !mo.CheckPropMatch(packProps(desired)) {
		tflog.Debug(ctx, "hostpack: package missing or attributes differ", map[string]interface{}{
			"exists": exists,
		})
		mo = ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, dn, packProps(desired))
		if err := r.add(ctx, mo); err != nil {
			return changed, err
		}
		changed = true
	}

	want := make(map[string]bool, len(desired.ExcludeServerComponents))
	for _, component := range desired.ExcludeServerComponents {
		want[component] = true

		componentDn := ExcludeComponentDn(dn, component)
		existing, err := r.Store.QueryDn(ctx, componentDn)
		if err != nil {
			return changed, &RemoteOperationError{Op: "lookup", Dn: componentDn, Err: err}
		}
		if existing != nil {
			continue
		}

		tflog.Debug(ctx, "hostpack: adding excluded component", map[string]interface{}{
			"component": component,
		})
		child := ucsm.NewManagedObject(ucsm.ClassFirmwareExcludeServerComponent, componentDn, map[string]string{
			"serverComponent": component,
		})
		if err := r.add(ctx, child); err != nil {
			return changed, err
		}
		changed = true
	}

	children, err := r.Store.QueryChildren(ctx, mo, ucsm.ClassFirmwareExcludeServerComponent)
	if err != nil {
		return changed, &RemoteOperationError{Op: "query children", Dn: dn, Err: err}
	}
	for _, child := range children {
		component := componentName(child)
		if want[component] {
			continue
		}

		tflog.Debug(ctx, "hostpack: removing excluded component", map[string]interface{}{
			"component": component,
		})
		if err := r.remove(ctx, child); err != nil {
			return changed, err
		}
		changed = true
	}

	return changed, nil
}

func (r *Reconciler) add(ctx context.Context, mo *ucsm.ManagedObject) error {
	if r.CheckMode {
		return nil
	}
	if err := r.Store.AddMo(mo, true); err != nil {
		return &RemoteOperationError{Op: "add", Dn: mo.Dn, Err: err}
	}
	if err := r.Store.Commit(ctx); err != nil {
		return &RemoteOperationError{Op: "commit", Dn: mo.Dn, Err: err}
	}
	return nil
}

func (r *Reconciler) remove(ctx context.Context, mo *ucsm.ManagedObject) error {
	if r.CheckMode {
		return nil
	}
	if err := r.Store.RemoveMo(mo); err != nil {
		return &RemoteOperationError{Op: "remove", Dn: mo.Dn, Err: err}
	}
	if err := r.Store.Commit(ctx); err != nil {
		return &RemoteOperationError{Op: "commit", Dn: mo.Dn, Err: err}
	}
	return nil
}

// packProps returns the top level attributes compared and pushed as a whole.
// Unset attributes are left out.
func packProps(d DesiredState) map[string]string {
	props := map[string]string{"name": d.Name}
	if d.IsSet(AttrDescr) {
		props["descr"] = d.Descr
	}
	if d.IsSet(AttrBladeBundleVersion) {
		props["bladeBundleVersion"] = d.BladeBundleVersion
	}
	if d.IsSet(AttrRackBundleVersion) {
		props["rackBundleVersion"] = d.RackBundleVersion
	}
	return props
}
