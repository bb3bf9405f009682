// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"terraform-provider-ucs/internal/hostpack"
	"terraform-provider-ucs/internal/models"
	"terraform-provider-ucs/internal/ucsm"
	"terraform-provider-ucs/internal/validators"

	"github.com/hashicorp/terraform-plugin-framework-validators/setvalidator"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/attr"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/setdefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringdefault"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

type hostFirmwarePackageImportConfig struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Endpoint    string `json:"endpoint"`
	SslInsecure bool   `json:"ssl_insecure"`
	Name        string `json:"name"`
}

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &HostFirmwarePackageResource{}
var _ resource.ResourceWithImportState = &HostFirmwarePackageResource{}

func NewHostFirmwarePackageResource() resource.Resource {
	return &HostFirmwarePackageResource{}
}

// HostFirmwarePackageResource defines the resource implementation.
type HostFirmwarePackageResource struct {
	p *UcsProvider
}

func (r *HostFirmwarePackageResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + hostFirmwarePackageName
}

func HostFirmwarePackageSchema() map[string]schema.Attribute {
	return map[string]schema.Attribute{
		"id": schema.StringAttribute{
			Computed:            true,
			MarkdownDescription: "Distinguished name of the host firmware package.",
			Description:         "Distinguished name of the host firmware package.",
			PlanModifiers: []planmodifier.String{
				stringplanmodifier.UseStateForUnknown(),
			},
		},
		"name": schema.StringAttribute{
			Required:            true,
			MarkdownDescription: "Name of the host firmware package. Changing it forces a new package.",
			Description:         "Name of the host firmware package. Changing it forces a new package.",
			PlanModifiers: []planmodifier.String{
				stringplanmodifier.RequiresReplace(),
			},
			Validators: []validator.String{
				stringvalidator.RegexMatches(
					regexp.MustCompile(`^[a-zA-Z0-9_.:-]+$`),
					"may contain only letters, digits and the characters - _ . :",
				),
			},
		},
		"descr": schema.StringAttribute{
			Optional:            true,
			Computed:            true,
			Default:             stringdefault.StaticString(""),
			MarkdownDescription: "Description of the host firmware package.",
			Description:         "Description of the host firmware package.",
		},
		"blade_bundle_version": schema.StringAttribute{
			Optional:            true,
			Computed:            true,
			Default:             stringdefault.StaticString(""),
			MarkdownDescription: "Blade server bundle version, e.g. `4.2(3d)B`. Empty means no blade bundle.",
			Description:         "Blade server bundle version, e.g. 4.2(3d)B. Empty means no blade bundle.",
			Validators: []validator.String{
				validators.BundleVersion("B"),
			},
		},
		"rack_bundle_version": schema.StringAttribute{
			Optional:            true,
			Computed:            true,
			Default:             stringdefault.StaticString(""),
			MarkdownDescription: "Rack server bundle version, e.g. `3.1(2c)C`. Empty means no rack bundle.",
			Description:         "Rack server bundle version, e.g. 3.1(2c)C. Empty means no rack bundle.",
			Validators: []validator.String{
				validators.BundleVersion("C"),
			},
		},
		"exclude_server_components": schema.SetAttribute{
			Optional:            true,
			Computed:            true,
			ElementType:         types.StringType,
			Default:             setdefault.StaticValue(types.SetValueMust(types.StringType, []attr.Value{})),
			MarkdownDescription: "Server components excluded from firmware updates, e.g. `local-disk` or `adaptor`.",
			Description:         "Server components excluded from firmware updates, e.g. local-disk or adaptor.",
			Validators: []validator.Set{
				setvalidator.ValueStringsAre(stringvalidator.OneOf(hostpack.ServerComponents...)),
			},
		},
	}
}

func (r *HostFirmwarePackageResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "The resource is used to control (create, modify or delete) host firmware packages on Cisco UCS Manager.",
		Description:         "The resource is used to control (create, modify or delete) host firmware packages on Cisco UCS Manager.",
		Attributes:          HostFirmwarePackageSchema(),
		Blocks:              UcsServerResourceBlockMap(),
	}
}

func (r *HostFirmwarePackageResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	// Prevent panic if the provider has not been configured.
	if req.ProviderData == nil {
		return
	}

	p, ok := req.ProviderData.(*UcsProvider)

	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *UcsProvider, got: %T. Please report this issue to the provider developers.", req.ProviderData),
		)

		return
	}

	r.p = p
}

func (r *HostFirmwarePackageResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	tflog.Info(ctx, "host-firmware-package: create starts")

	var plan models.HostFirmwarePackageResourceModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	state, diags := applyHostFirmwarePackagePlan(ctx, r.p, plan)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
	tflog.Info(ctx, "host-firmware-package: create ends")
}

func (r *HostFirmwarePackageResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	tflog.Info(ctx, "host-firmware-package: read starts")

	var state models.HostFirmwarePackageResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	observed, diags := observeHostFirmwarePackage(ctx, r.p, state.UcsServer, state.Name.ValueString())
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	if observed == nil {
		tflog.Warn(ctx, "host-firmware-package: package no longer exists, removing from state", map[string]interface{}{
			"name": state.Name.ValueString(),
		})
		resp.State.RemoveResource(ctx)
		return
	}

	newState, diags := updateHostFirmwarePackageState(ctx, observed, state.UcsServer)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &newState)...)
	tflog.Info(ctx, "host-firmware-package: read ends")
}

func (r *HostFirmwarePackageResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	tflog.Info(ctx, "host-firmware-package: update starts")

	var plan models.HostFirmwarePackageResourceModel
	resp.Diagnostics.Append(req.Plan.Get(ctx, &plan)...)
	if resp.Diagnostics.HasError() {
		return
	}

	state, diags := applyHostFirmwarePackagePlan(ctx, r.p, plan)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &state)...)
	tflog.Info(ctx, "host-firmware-package: update ends")
}

func (r *HostFirmwarePackageResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	tflog.Info(ctx, "host-firmware-package: delete starts")

	var state models.HostFirmwarePackageResourceModel
	resp.Diagnostics.Append(req.State.Get(ctx, &state)...)
	if resp.Diagnostics.HasError() {
		return
	}

	desired := hostpack.DesiredState{
		Name:     state.Name.ValueString(),
		Presence: hostpack.Absent,
	}
	_, diags := reconcileHostFirmwarePackage(ctx, r.p, state.UcsServer, desired)
	resp.Diagnostics.Append(diags...)
	if resp.Diagnostics.HasError() {
		return
	}

	resp.State.RemoveResource(ctx)
	tflog.Info(ctx, "host-firmware-package: delete ends")
}

// ImportState accepts either a bare package name, using provider level
// connection settings, or a JSON object with server credentials and name.
func (r *HostFirmwarePackageResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	tflog.Info(ctx, "host-firmware-package: import starts")

	id := strings.TrimSpace(req.ID)
	if !strings.HasPrefix(id, "{") {
		name := id
		if n, ok := hostpack.NameFromDn(id); ok {
			name = n
		}
		resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("name"), name)...)
		tflog.Info(ctx, "host-firmware-package: import ends")
		return
	}

	var config hostFirmwarePackageImportConfig
	if err := json.Unmarshal([]byte(id), &config); err != nil {
		resp.Diagnostics.AddError("Error while unmarshalling id", err.Error())
		return
	}
	if config.Name == "" {
		resp.Diagnostics.AddError("Error while importing host firmware package", "import id is missing 'name'")
		return
	}

	server := models.UcsServer{
		User:        types.StringValue(config.Username),
		Password:    types.StringValue(config.Password),
		Endpoint:    types.StringValue(config.Endpoint),
		SslInsecure: types.BoolValue(config.SslInsecure),
	}

	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("name"), config.Name)...)
	resp.Diagnostics.Append(resp.State.SetAttribute(ctx, path.Root("server"), []models.UcsServer{server})...)

	tflog.Info(ctx, "host-firmware-package: import ends")
}

// desiredFromPlan converts the resource model into the reconciler input.
func desiredFromPlan(ctx context.Context, plan models.HostFirmwarePackageResourceModel, presence hostpack.Presence) (hostpack.DesiredState, diag.Diagnostics) {
	var diags diag.Diagnostics
	desired := hostpack.DesiredState{
		Name:               plan.Name.ValueString(),
		Descr:              plan.Descr.ValueString(),
		BladeBundleVersion: plan.BladeBundleVersion.ValueString(),
		RackBundleVersion:  plan.RackBundleVersion.ValueString(),
		Presence:           presence,
	}
	if !plan.ExcludeServerComponents.IsNull() && !plan.ExcludeServerComponents.IsUnknown() {
		diags.Append(plan.ExcludeServerComponents.ElementsAs(ctx, &desired.ExcludeServerComponents, false)...)
	}
	return desired, diags
}

func updateHostFirmwarePackageState(ctx context.Context, observed *hostpack.ObservedState, servers []models.UcsServer) (models.HostFirmwarePackageResourceModel, diag.Diagnostics) {
	components, diags := types.SetValueFrom(ctx, types.StringType, observed.ExcludeServerComponents)
	return models.HostFirmwarePackageResourceModel{
		Id:                      types.StringValue(observed.Dn),
		UcsServer:               servers,
		Name:                    types.StringValue(observed.Name),
		Descr:                   types.StringValue(observed.Descr),
		BladeBundleVersion:      types.StringValue(observed.BladeBundleVersion),
		RackBundleVersion:       types.StringValue(observed.RackBundleVersion),
		ExcludeServerComponents: components,
	}, diags
}

func applyHostFirmwarePackagePlan(ctx context.Context, p *UcsProvider, plan models.HostFirmwarePackageResourceModel) (models.HostFirmwarePackageResourceModel, diag.Diagnostics) {
	desired, diags := desiredFromPlan(ctx, plan, hostpack.Present)
	if diags.HasError() {
		return plan, diags
	}

	observed, d := reconcileHostFirmwarePackage(ctx, p, plan.UcsServer, desired)
	diags.Append(d...)
	if diags.HasError() {
		return plan, diags
	}
	if observed == nil {
		diags.AddError("Host firmware package not found after apply",
			fmt.Sprintf("Package '%s' does not exist on UCS Manager although it has just been configured.", desired.Name))
		return plan, diags
	}

	state, d := updateHostFirmwarePackageState(ctx, observed, plan.UcsServer)
	diags.Append(d...)
	return state, diags
}

// reconcileHostFirmwarePackage converges the package and, for a present package,
// returns it as read back from UCS Manager.
func reconcileHostFirmwarePackage(ctx context.Context, p *UcsProvider, servers []models.UcsServer, desired hostpack.DesiredState) (observed *hostpack.ObservedState, diags diag.Diagnostics) {
	cfg, err := resolveServer(p, servers)
	if err != nil {
		diags.AddError("error. Invalid server configuration", err.Error())
		return nil, diags
	}

	mutexPool.Lock(ctx, cfg.Endpoint, hostFirmwarePackageName)
	defer mutexPool.Unlock(ctx, cfg.Endpoint, hostFirmwarePackageName)

	client, err := ConnectUcsManager(ctx, cfg)
	if err != nil {
		diags.AddError("error. Service Connect Target System Error", err.Error())
		return nil, diags
	}
	defer logout(ctx, client)

	store := ucsm.NewHandle(client)
	reconciler := &hostpack.Reconciler{Store: store}
	result := reconciler.Reconcile(ctx, desired)
	if result.Failed() {
		diags.AddError("error. Host firmware package reconciliation failed", result.Msg())
		if result.Changed {
			diags.AddWarning("Partial changes applied",
				"Some changes were committed to UCS Manager before the failure and have not been rolled back.")
		}
		return nil, diags
	}

	if desired.Presence == hostpack.Absent {
		return nil, diags
	}

	observed, err = hostpack.Observe(ctx, store, desired.Name)
	if err != nil {
		diags.AddError("error. Not able to read host firmware package", err.Error())
		return nil, diags
	}
	return observed, diags
}

func observeHostFirmwarePackage(ctx context.Context, p *UcsProvider, servers []models.UcsServer, name string) (*hostpack.ObservedState, diag.Diagnostics) {
	var diags diag.Diagnostics

	cfg, err := resolveServer(p, servers)
	if err != nil {
		diags.AddError("error. Invalid server configuration", err.Error())
		return nil, diags
	}

	client, err := ConnectUcsManager(ctx, cfg)
	if err != nil {
		diags.AddError("error. Service Connect Target System Error", err.Error())
		return nil, diags
	}
	defer logout(ctx, client)

	observed, err := hostpack.Observe(ctx, ucsm.NewHandle(client), name)
	if err != nil {
		diags.AddError("error. Not able to read host firmware package", err.Error())
		return nil, diags
	}
	return observed, diags
}
