// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"terraform-provider-ucs/internal/models"

	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/stmcginnis/gofish"
	"github.com/stmcginnis/gofish/redfish"
)

const (
	FIRMWARE_INVENTORY_ENDPOINT = "/redfish/v1/UpdateService/FirmwareInventory"

	cimcServerMD = "Endpoint and user credentials of the rack server CIMC. Username and password fall back to the provider configuration, the endpoint does not."
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &RackFirmwareInventoryDataSource{}

func NewRackFirmwareInventoryDataSource() datasource.DataSource {
	return &RackFirmwareInventoryDataSource{}
}

// RackFirmwareInventoryDataSource reads firmware running on a standalone
// C-Series server through its CIMC Redfish service.
type RackFirmwareInventoryDataSource struct {
	p *UcsProvider
}

func (d *RackFirmwareInventoryDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + rackFirmwareInventoryName
}

func RackFirmwareInventorySchema() map[string]schema.Attribute {
	return map[string]schema.Attribute{
		"id": schema.StringAttribute{
			Computed:    true,
			Description: "ID of the firmware inventory.",
		},
		"name_filter": schema.StringAttribute{
			Optional:    true,
			Description: "When set, only firmware members whose name contains this value (case insensitive) are returned.",
		},
		"inventory": schema.ListNestedAttribute{
			Computed: true,
			NestedObject: schema.NestedAttributeObject{
				Attributes: map[string]schema.Attribute{
					"odata_id": schema.StringAttribute{
						Computed:    true,
						Description: "OData ID of the firmware member.",
					},
					"id": schema.StringAttribute{
						Computed:    true,
						Description: "ID of the firmware member.",
					},
					"name": schema.StringAttribute{
						Computed:    true,
						Description: "Name of the firmware.",
					},
					"software_id": schema.StringAttribute{
						Computed:    true,
						Description: "Software ID of the firmware.",
					},
					"updateable": schema.BoolAttribute{
						Computed:    true,
						Description: "Indicates if the firmware is updateable.",
					},
					"version": schema.StringAttribute{
						Computed:    true,
						Description: "Version of the firmware.",
					},
					"state": schema.StringAttribute{
						Computed:    true,
						Description: "State of the firmware.",
					},
					"health": schema.StringAttribute{
						Computed:    true,
						Description: "Health status of the firmware.",
					},
				},
			},
		},
	}
}

// RackFirmwareInventoryBlockMap makes the server block mandatory, the provider
// level endpoint points at UCS Manager which has no Redfish service.
func RackFirmwareInventoryBlockMap() map[string]schema.Block {
	return map[string]schema.Block{
		"server": schema.ListNestedBlock{
			MarkdownDescription: cimcServerMD,
			Description:         cimcServerMD,
			Validators: []validator.List{
				listvalidator.IsRequired(),
				listvalidator.SizeAtMost(1),
			},
			NestedObject: schema.NestedBlockObject{
				Attributes: UcsServerDatasourceSchema(),
			},
		},
	}
}

func (d *RackFirmwareInventoryDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Firmware inventory of a standalone rack server, read from its CIMC Redfish service. Helps choosing `rack_bundle_version` of a host firmware package. The `server` block with the CIMC endpoint is required.",
		Attributes:          RackFirmwareInventorySchema(),
		Blocks:              RackFirmwareInventoryBlockMap(),
	}
}

func (d *RackFirmwareInventoryDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
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

func (d *RackFirmwareInventoryDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	tflog.Info(ctx, "data-rack-firmware-inventory: read starts")

	var data models.RackFirmwareInventory
	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	if err := requireCimcEndpoint(data.UcsServer); err != nil {
		resp.Diagnostics.AddError("error. Invalid server configuration", err.Error())
		return
	}

	cfg, err := resolveServer(d.p, data.UcsServer)
	if err != nil {
		resp.Diagnostics.AddError("error. Invalid server configuration", err.Error())
		return
	}

	api, err := ConnectTargetSystem(ctx, cfg)
	if err != nil {
		resp.Diagnostics.AddError("Service Connection Error", err.Error())
		return
	}
	defer api.Logout()

	members, err := GetFirmwareInventoryList(api)
	if err != nil {
		resp.Diagnostics.AddError("Error Getting Firmware Inventories", err.Error())
		return
	}

	data.ID = types.StringValue(FIRMWARE_INVENTORY_ENDPOINT)
	data.Inventory = filterInventory(members, data.NameFilter.ValueString())

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)

	tflog.Info(ctx, "data-rack-firmware-inventory: read ends")
}

// requireCimcEndpoint rejects a configuration falling back to the provider level
// endpoint. Credentials may still come from the provider.
func requireCimcEndpoint(servers []models.UcsServer) error {
	if len(servers) == 0 || servers[0].Endpoint.ValueString() == "" {
		return fmt.Errorf("error. Provide the CIMC endpoint in the server block, the provider level endpoint belongs to UCS Manager")
	}
	return nil
}

func GetFirmwareInventoryList(api *gofish.APIClient) ([]models.Inventory, error) {
	updateService, err := api.Service.UpdateService()
	if err != nil {
		return nil, fmt.Errorf("error getting update service: %w", err)
	}

	inventories, err := updateService.FirmwareInventories()
	if err != nil {
		return nil, fmt.Errorf("error getting firmware inventory list: %w", err)
	}

	members := make([]models.Inventory, 0, len(inventories))
	for _, inv := range inventories {
		members = append(members, inventoryModel(inv))
	}
	sort.Slice(members, func(i, j int) bool {
		return members[i].OdataID.ValueString() < members[j].OdataID.ValueString()
	})
	return members, nil
}

func inventoryModel(inv *redfish.SoftwareInventory) models.Inventory {
	return models.Inventory{
		OdataID:    types.StringValue(inv.ODataID),
		Id:         types.StringValue(inv.ID),
		Name:       types.StringValue(inv.Name),
		SoftwareId: types.StringValue(inv.SoftwareID),
		Updateable: types.BoolValue(inv.Updateable),
		Version:    types.StringValue(inv.Version),
		State:      types.StringValue(string(inv.Status.State)),
		Health:     types.StringValue(string(inv.Status.Health)),
	}
}

func filterInventory(members []models.Inventory, nameFilter string) []models.Inventory {
	if nameFilter == "" {
		return members
	}
	filter := strings.ToLower(nameFilter)
	out := make([]models.Inventory, 0, len(members))
	for _, m := range members {
		if strings.Contains(strings.ToLower(m.Name.ValueString()), filter) {
			out = append(out, m)
		}
	}
	return out
}
