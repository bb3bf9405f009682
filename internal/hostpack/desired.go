// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package hostpack

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// OrgRoot is the DN of the root organization host firmware packages live in.
const OrgRoot = "org-root"

const (
	packRnPrefix      = "fw-host-pack-"
	componentRnPrefix = "exclude-server-component-"
)

// ServerComponents lists component names UCS Manager accepts for exclusion
// from host firmware package updates.
var ServerComponents = []string{
	"adaptor",
	"board-controller",
	"cimc",
	"flexflash-controller",
	"graphics-card",
	"host-hba",
	"host-hba-optionrom",
	"host-nic",
	"host-nic-optionrom",
	"local-disk",
	"psu",
	"sas-expander",
	"server-bios",
	"storage-controller",
	"storage-controller-onboard-device",
	"storage-controller-onboard-device-cpld",
	"unspecified",
}

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`)

// Presence is the desired lifecycle state of a host firmware package.
type Presence int

const (
	Present Presence = iota
	Absent
)

func (p Presence) String() string {
	switch p {
	case Present:
		return "present"
	case Absent:
		return "absent"
	default:
		return fmt.Sprintf("Presence(%d)", int(p))
	}
}

// ParsePresence converts "present" or "absent" to a Presence. Empty string means Present.
func ParsePresence(s string) (Presence, error) {
	switch strings.ToLower(s) {
	case "", "present":
		return Present, nil
	case "absent":
		return Absent, nil
	default:
		return Present, &ValidationError{Field: "state", Reason: fmt.Sprintf("value must be one of present, absent, got %q", s)}
	}
}

// Attr selects optional top level attributes of a host firmware package.
type Attr uint8

const (
	AttrDescr Attr = 1 << iota
	AttrBladeBundleVersion
	AttrRackBundleVersion
)

// DesiredState describes a host firmware package as it should exist on UCS Manager.
// Empty description or bundle version means the attribute should be empty remotely,
// unless the attribute is listed in Unset.
type DesiredState struct {
	Name                    string
	Descr                   string
	BladeBundleVersion      string
	RackBundleVersion       string
	ExcludeServerComponents []string
	Presence                Presence
	// Unset attributes are neither compared nor pushed, their remote value is kept.
	Unset Attr
}

// IsSet reports whether attr is managed by d.
func (d DesiredState) IsSet(attr Attr) bool {
	return d.Unset&attr == 0
}

// Normalize returns a copy with exclude components de-duplicated and sorted.
// A nil component list becomes an empty one. The receiver is not modified.
func (d DesiredState) Normalize() DesiredState {
	n := d
	seen := make(map[string]bool, len(d.ExcludeServerComponents))
	n.ExcludeServerComponents = make([]string, 0, len(d.ExcludeServerComponents))
	for _, c := range d.ExcludeServerComponents {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		n.ExcludeServerComponents = append(n.ExcludeServerComponents, c)
	}
	sort.Strings(n.ExcludeServerComponents)
	return n
}

// Validate checks the package name and every excluded component.
func (d DesiredState) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "value is required"}
	}
	if !namePattern.MatchString(d.Name) {
		return &ValidationError{Field: "name", Reason: fmt.Sprintf("%q may contain only letters, digits and the characters - _ . :", d.Name)}
	}
	if d.Presence != Present && d.Presence != Absent {
		return &ValidationError{Field: "state", Reason: fmt.Sprintf("unknown presence %d", int(d.Presence))}
	}
	for _, c := range d.ExcludeServerComponents {
		if !IsServerComponent(c) {
			return &ValidationError{
				Field:  "exclude_server_components",
				Reason: fmt.Sprintf("%q is not one of %s", c, strings.Join(ServerComponents, ", ")),
			}
		}
	}
	return nil
}

// IsServerComponent reports whether name is a known server component.
func IsServerComponent(name string) bool {
	for _, c := range ServerComponents {
		if c == name {
			return true
		}
	}
	return false
}

// PackDn returns the DN of the host firmware package with given name.
func PackDn(name string) string {
	return OrgRoot + "/" + packRnPrefix + name
}

// ExcludeComponentDn returns the DN of an excluded component under packDn.
func ExcludeComponentDn(packDn, component string) string {
	return packDn + "/" + componentRnPrefix + component
}

// NameFromDn extracts package name from its DN. ok is false when dn is not a
// host firmware package DN under OrgRoot.
func NameFromDn(dn string) (name string, ok bool) {
	prefix := OrgRoot + "/" + packRnPrefix
	if !strings.HasPrefix(dn, prefix) {
		return "", false
	}
	name = strings.TrimPrefix(dn, prefix)
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}
	return name, true
}
