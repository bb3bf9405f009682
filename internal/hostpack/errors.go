// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hostpack

import "fmt"

// ValidationError reports a desired state UCS Manager would not accept.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// RemoteOperationError wraps a failed call against the object store.
type RemoteOperationError struct {
	Op  string
	Dn  string
	Err error
}

func (e *RemoteOperationError) Error() string {
	if e.Dn == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Dn, e.Err)
}

func (e *RemoteOperationError) Unwrap() error { return e.Err }
