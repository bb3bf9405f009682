// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"

	"terraform-provider-ucs/internal/models"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &HostFirmwarePackageDataSource{}

func NewHostFirmwarePackageDataSource() datasource.DataSource {
	return &HostFirmwarePackageDataSource{}
}

// HostFirmwarePackageDataSource defines the data source implementation.
type HostFirmwarePackageDataSource struct {
	p *UcsProvider
}

func (d *HostFirmwarePackageDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + hostFirmwarePackageName
}

func HostFirmwarePackageDataSourceSchema() map[string]schema.Attribute {
	return map[string]schema.Attribute{
		"id": schema.StringAttribute{
			Computed:    true,
			Description: "Distinguished name of the host firmware package.",
		},
		"name": schema.StringAttribute{
			Required:    true,
			Description: "Name of the host firmware package.",
		},
		"descr": schema.StringAttribute{
			Computed:    true,
			Description: "Description of the host firmware package.",
		},
		"blade_bundle_version": schema.StringAttribute{
			Computed:    true,
			Description: "Blade server bundle version.",
		},
		"rack_bundle_version": schema.StringAttribute{
			Computed:    true,
			Description: "Rack server bundle version.",
		},
		"exclude_server_components": schema.SetAttribute{
			Computed:    true,
			ElementType: types.StringType,
			Description: "Server components excluded from firmware updates.",
		},
	}
}

func (d *HostFirmwarePackageDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Host firmware package data source",
		Attributes:          HostFirmwarePackageDataSourceSchema(),
		Blocks:              UcsServerDatasourceBlockMap(),
	}
}

func (d *HostFirmwarePackageDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return
	}

	p, ok := req.ProviderData.(*UcsProvider)

	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *UcsProvider, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)

		return
	}

	d.p = p
}

func (d *HostFirmwarePackageDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	tflog.Info(ctx, "data-host-firmware-package: read starts")

	var data models.HostFirmwarePackageDataSourceModel
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	observed, diags := observeHostFirmwarePackage(ctx, d.p, data.UcsServer, data.Name.ValueString())
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	if observed == nil {
		resp.Diagnostics.AddError("Host firmware package not found",
			fmt.Sprintf("Package '%s' does not exist on UCS Manager.", data.Name.ValueString()))
		return
	}

	components, diags := types.SetValueFrom(ctx, types.StringType, observed.ExcludeServerComponents)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	data.Id = types.StringValue(observed.Dn)
	data.Descr = types.StringValue(observed.Descr)
	data.BladeBundleVersion = types.StringValue(observed.BladeBundleVersion)
	data.RackBundleVersion = types.StringValue(observed.RackBundleVersion)
	data.ExcludeServerComponents = components

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)

	tflog.Info(ctx, "data-host-firmware-package: read ends")
}
