// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ucsm

import (
	"errors"
	"fmt"
)

// ErrNotLoggedIn is returned when a method requiring a session is called without one.
var ErrNotLoggedIn = errors.New("ucsm: not logged in")

// ErrorResponse is returned when UCS Manager answers a request with an error document.
type ErrorResponse struct {
	Method      string
	Code        string
	Description string
}

func (e *ErrorResponse) Error() string {
	return fmt.Sprintf("ucsm: %s failed with error code %s: %s", e.Method, e.Code, e.Description)
}

// StatusError is returned when the XML API endpoint answers with unexpected HTTP status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ucsm: unexpected HTTP status %s", e.Status)
}

func (s responseStatus) err(method string) error {
	if s.ErrorCode == "" && s.ErrorDescr == "" {
		return nil
	}
	return &ErrorResponse{
		Method:      method,
		Code:        s.ErrorCode,
		Description: s.ErrorDescr,
	}
}
