// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package models

import (
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// RackFirmwareInventory describes firmware components reported by a rack server CIMC.
type RackFirmwareInventory struct {
	ID         types.String `tfsdk:"id"`
	UcsServer  []UcsServer  `tfsdk:"server"`
	NameFilter types.String `tfsdk:"name_filter"`
	Inventory  []Inventory  `tfsdk:"inventory"`
}

type Inventory struct {
	OdataID    types.String `tfsdk:"odata_id"`
	Id         types.String `tfsdk:"id"`
	Name       types.String `tfsdk:"name"`
	SoftwareId types.String `tfsdk:"software_id"`
	Updateable types.Bool   `tfsdk:"updateable"`
	Version    types.String `tfsdk:"version"`
	State      types.String `tfsdk:"state"`
	Health     types.String `tfsdk:"health"`
}
