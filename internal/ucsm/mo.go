// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ucsm

import (
	"encoding/xml"
	"sort"
	"strings"
)

// Class IDs of the managed objects handled by this provider.
const (
	ClassFirmwareComputeHostPack        = "firmwareComputeHostPack"
	ClassFirmwareExcludeServerComponent = "firmwareExcludeServerComponent"
)

// Values of the status attribute used when pushing configuration.
const (
	StatusCreated         = "created"
	StatusCreatedModified = "created,modified"
	StatusDeleted         = "deleted"
)

// ManagedObject is a single object of the UCS Manager management information tree.
// Attribute names are kept in the UCSM XML form (e.g. "bladeBundleVersion").
type ManagedObject struct {
	ClassID  string
	Dn       string
	Status   string
	Attrs    map[string]string
	Children []*ManagedObject
}

// NewManagedObject builds a managed object of given class located at dn.
func NewManagedObject(classID, dn string, attrs map[string]string) *ManagedObject {
	mo := &ManagedObject{
		ClassID: classID,
		Dn:      dn,
		Attrs:   make(map[string]string, len(attrs)),
	}
	for k, v := range attrs {
		mo.Attrs[k] = v
	}
	return mo
}

// Get returns value of attribute or empty string if it is not set.
func (mo *ManagedObject) Get(attr string) string {
	if attr == "dn" {
		return mo.Dn
	}
	return mo.Attrs[attr]
}

// Rn returns relative name of the object, the last element of its DN.
func (mo *ManagedObject) Rn() string {
	if i := strings.LastIndex(mo.Dn, "/"); i >= 0 {
		return mo.Dn[i+1:]
	}
	return mo.Dn
}

// ParentDn returns DN of the object's parent or empty string for top level objects.
func (mo *ManagedObject) ParentDn() string {
	if i := strings.LastIndex(mo.Dn, "/"); i >= 0 {
		return mo.Dn[:i]
	}
	return ""
}

// CheckPropMatch reports whether every given attribute has the expected value.
func (mo *ManagedObject) CheckPropMatch(props map[string]string) bool {
	for k, v := range props {
		if mo.Get(k) != v {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the object.
func (mo *ManagedObject) Clone() *ManagedObject {
	c := NewManagedObject(mo.ClassID, mo.Dn, mo.Attrs)
	c.Status = mo.Status
	for _, child := range mo.Children {
		c.Children = append(c.Children, child.Clone())
	}
	return c
}

func (mo *ManagedObject) MarshalXML(e *xml.Encoder, _ xml.StartElement) error {
	start := xml.StartElement{Name: xml.Name{Local: mo.ClassID}}

	keys := make([]string, 0, len(mo.Attrs))
	for k := range mo.Attrs {
		if k == "dn" || k == "status" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "dn"}, Value: mo.Dn})
	for _, k := range keys {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: k}, Value: mo.Attrs[k]})
	}
	if mo.Status != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "status"}, Value: mo.Status})
	}

	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, child := range mo.Children {
		if err := e.Encode(child); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

func (mo *ManagedObject) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	mo.ClassID = start.Name.Local
	mo.Attrs = make(map[string]string, len(start.Attr))
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "dn":
			mo.Dn = a.Value
		case "status":
			mo.Status = a.Value
		default:
			mo.Attrs[a.Name.Local] = a.Value
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child := &ManagedObject{}
			if err := child.UnmarshalXML(d, t); err != nil {
				return err
			}
			// hierarchical responses may omit dn on children and carry rn only
			if child.Dn == "" && child.Attrs["rn"] != "" {
				child.Dn = mo.Dn + "/" + child.Attrs["rn"]
			}
			mo.Children = append(mo.Children, child)
		case xml.EndElement:
			return nil
		}
	}
}
