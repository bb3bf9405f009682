// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package models

import (
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// HostFirmwarePackageResourceModel describes the resource data model.
type HostFirmwarePackageResourceModel struct {
	Id                      types.String `tfsdk:"id"`
	UcsServer               []UcsServer  `tfsdk:"server"`
	Name                    types.String `tfsdk:"name"`
	Descr                   types.String `tfsdk:"descr"`
	BladeBundleVersion      types.String `tfsdk:"blade_bundle_version"`
	RackBundleVersion       types.String `tfsdk:"rack_bundle_version"`
	ExcludeServerComponents types.Set    `tfsdk:"exclude_server_components"`
}

// HostFirmwarePackageDataSourceModel describes the data source data model.
type HostFirmwarePackageDataSourceModel struct {
	Id                      types.String `tfsdk:"id"`
	UcsServer               []UcsServer  `tfsdk:"server"`
	Name                    types.String `tfsdk:"name"`
	Descr                   types.String `tfsdk:"descr"`
	BladeBundleVersion      types.String `tfsdk:"blade_bundle_version"`
	RackBundleVersion       types.String `tfsdk:"rack_bundle_version"`
	ExcludeServerComponents types.Set    `tfsdk:"exclude_server_components"`
}
