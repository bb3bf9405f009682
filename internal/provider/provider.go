// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"os"
	"strconv"

	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"
)

// Ensure UcsProvider satisfies various provider interfaces.
var _ provider.Provider = &UcsProvider{}

// Environment variables consulted when the provider block leaves a value unset.
const (
	envEndpoint    = "UCS_ENDPOINT"
	envUsername    = "UCS_USERNAME"
	envPassword    = "UCS_PASSWORD"
	envSslInsecure = "UCS_SSL_INSECURE"
)

// UcsProvider defines the provider implementation.
type UcsProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version  string
	Endpoint string
	Username string
	Password string
	Insecure bool
}

// UcsProviderModel describes the provider data model.
type UcsProviderModel struct {
	Endpoint    types.String `tfsdk:"endpoint"`
	Username    types.String `tfsdk:"username"`
	Password    types.String `tfsdk:"password"`
	SslInsecure types.Bool   `tfsdk:"ssl_insecure"`
}

func (p *UcsProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = providerTypeName
	resp.Version = p.version
}

func (p *UcsProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Manages Cisco UCS Manager policies. Connection settings given here are used by every resource without its own `server` block.",
		Attributes: map[string]schema.Attribute{
			"endpoint": schema.StringAttribute{
				Description: "UCS Manager address or hostname. May also be set with " + envEndpoint + ".",
				Optional:    true,
			},
			"username": schema.StringAttribute{
				Description: "Username accessing UCS Manager XML API. May also be set with " + envUsername + ".",
				Optional:    true,
			},
			"password": schema.StringAttribute{
				Description: "Password related to given user name. May also be set with " + envPassword + ".",
				Optional:    true,
				Sensitive:   true,
			},
			"ssl_insecure": schema.BoolAttribute{
				Description: "This field indicates whether the SSL/TLS certificate must be verified or not.",
				Optional:    true,
			},
		},
	}
}

func (p *UcsProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data UcsProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	if data.Username.IsUnknown() {
		resp.Diagnostics.AddWarning(
			"Unable to create client as username is missing",
			"Cannot use unknown value",
		)
	}

	if data.Password.IsUnknown() {
		resp.Diagnostics.AddWarning(
			"Unable to create client as password is missing",
			"Cannot use unknown value",
		)
	}

	p.Endpoint = stringOrEnv(data.Endpoint, envEndpoint)
	p.Username = stringOrEnv(data.Username, envUsername)
	p.Password = stringOrEnv(data.Password, envPassword)

	if !data.SslInsecure.IsNull() && !data.SslInsecure.IsUnknown() {
		p.Insecure = data.SslInsecure.ValueBool()
	} else if v, err := strconv.ParseBool(os.Getenv(envSslInsecure)); err == nil {
		p.Insecure = v
	}

	resp.ResourceData = p
	resp.DataSourceData = p

	tflog.Trace(ctx, "Finished configuring the provider", map[string]interface{}{
		"endpoint": p.Endpoint,
	})
}

func (p *UcsProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewHostFirmwarePackageResource,
	}
}

func (p *UcsProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewHostFirmwarePackageDataSource,
		NewRackFirmwareInventoryDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &UcsProvider{
			version: version,
		}
	}
}

func stringOrEnv(v types.String, env string) string {
	if !v.IsNull() && !v.IsUnknown() && v.ValueString() != "" {
		return v.ValueString()
	}
	return os.Getenv(env)
}
