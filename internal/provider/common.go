// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"context"
	"fmt"
	"strings"

	"terraform-provider-ucs/internal/models"
	"terraform-provider-ucs/internal/ucsm"

	"github.com/hashicorp/terraform-plugin-framework-validators/listvalidator"
	datasourceSchema "github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	resourceSchema "github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-log/tflog"
	"github.com/stmcginnis/gofish"
)

const (
	providerTypeName string = "ucs"
	ucsServerMD      string = "Endpoint and user credentials of the managed system. Overrides the provider configuration."

	hostFirmwarePackageName   string = "_host_firmware_package"
	rackFirmwareInventoryName string = "_rack_firmware_inventory"
)

// UcsServerDatasourceSchema to construct schema of ucs server
func UcsServerDatasourceSchema() map[string]datasourceSchema.Attribute {
	return map[string]datasourceSchema.Attribute{
		"username": datasourceSchema.StringAttribute{
			Optional:    true,
			Description: "User name for login",
		},
		"password": datasourceSchema.StringAttribute{
			Optional:    true,
			Description: "User password for login",
			Sensitive:   true,
		},
		"endpoint": datasourceSchema.StringAttribute{
			Optional:    true,
			Description: "Server address or hostname",
		},
		"ssl_insecure": datasourceSchema.BoolAttribute{
			Optional:    true,
			Description: "This field indicates whether the SSL/TLS certificate must be verified or not",
		},
	}
}

func UcsServerSchema() map[string]resourceSchema.Attribute {
	return map[string]resourceSchema.Attribute{
		"username": resourceSchema.StringAttribute{
			Optional:    true,
			Description: "User name for login",
		},
		"password": resourceSchema.StringAttribute{
			Optional:    true,
			Description: "User password for login",
			Sensitive:   true,
		},
		"endpoint": resourceSchema.StringAttribute{
			Optional:    true,
			Description: "Server address or hostname",
		},
		"ssl_insecure": resourceSchema.BoolAttribute{
			Optional:    true,
			Description: "This field indicates whether the SSL/TLS certificate must be verified or not",
		},
	}
}

// UcsServerDatasourceBlockMap to construct common block map for data sources
func UcsServerDatasourceBlockMap() map[string]datasourceSchema.Block {
	return map[string]datasourceSchema.Block{
		"server": datasourceSchema.ListNestedBlock{
			MarkdownDescription: ucsServerMD,
			Description:         ucsServerMD,
			Validators: []validator.List{
				listvalidator.SizeAtMost(1),
			},
			NestedObject: datasourceSchema.NestedBlockObject{
				Attributes: UcsServerDatasourceSchema(),
			},
		},
	}
}

func UcsServerResourceBlockMap() map[string]resourceSchema.Block {
	return map[string]resourceSchema.Block{
		"server": resourceSchema.ListNestedBlock{
			MarkdownDescription: ucsServerMD,
			Description:         ucsServerMD,
			Validators: []validator.List{
				listvalidator.SizeAtMost(1),
			},
			NestedObject: resourceSchema.NestedBlockObject{
				Attributes: UcsServerSchema(),
			},
		},
	}
}

// serverConfig holds connection settings after merging the server block with
// the provider configuration.
type serverConfig struct {
	Endpoint string
	Username string
	Password string
	Insecure bool
}

// resolveServer merges the optional server block with provider level settings.
// Values from the server block take precedence.
func resolveServer(pconfig *UcsProvider, rserver []models.UcsServer) (serverConfig, error) {
	var cfg serverConfig
	if pconfig != nil {
		cfg = serverConfig{
			Endpoint: pconfig.Endpoint,
			Username: pconfig.Username,
			Password: pconfig.Password,
			Insecure: pconfig.Insecure,
		}
	}

	if len(rserver) > 0 {
		rserver1 := rserver[0]
		if v := rserver1.Endpoint.ValueString(); len(v) > 0 {
			cfg.Endpoint = v
		}
		if v := rserver1.User.ValueString(); len(v) > 0 {
			cfg.Username = v
		}
		if v := rserver1.Password.ValueString(); len(v) > 0 {
			cfg.Password = v
		}
		if !rserver1.SslInsecure.IsNull() && !rserver1.SslInsecure.IsUnknown() {
			cfg.Insecure = rserver1.SslInsecure.ValueBool()
		}
	}

	if len(cfg.Endpoint) == 0 {
		return cfg, fmt.Errorf("error. Either provide endpoint at provider level or resource level. Please check your configuration")
	}
	if len(cfg.Username) == 0 {
		return cfg, fmt.Errorf("error. Either provide username at provider level or resource level. Please check your configuration")
	}
	if len(cfg.Password) == 0 {
		return cfg, fmt.Errorf("error. Either provide password at provider level or resource level. Please check your configuration")
	}
	return cfg, nil
}

// ConnectUcsManager logs in to UCS Manager. Callers must Logout the returned client.
func ConnectUcsManager(ctx context.Context, cfg serverConfig) (*ucsm.Client, error) {
	client, err := ucsm.Connect(ctx, ucsm.Config{
		Endpoint: cfg.Endpoint,
		Username: cfg.Username,
		Password: cfg.Password,
		Insecure: cfg.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to UCS Manager XML API: %w", err)
	}
	tflog.Info(ctx, "Connection with UCS Manager was successful", map[string]interface{}{
		"endpoint": cfg.Endpoint,
		"version":  client.Version(),
	})
	return client, nil
}

// ConnectTargetSystem connects to the Redfish service of a standalone rack server CIMC.
func ConnectTargetSystem(ctx context.Context, cfg serverConfig) (*gofish.APIClient, error) {
	endpoint := cfg.Endpoint
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	clientConfig := gofish.ClientConfig{
		Endpoint:  endpoint,
		Username:  cfg.Username,
		Password:  cfg.Password,
		BasicAuth: true,
		Insecure:  cfg.Insecure,
	}
	api, err := gofish.ConnectContext(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("error connecting to redfish API: %w", err)
	}
	tflog.Info(ctx, "Connection with the redfish endpoint was successful", map[string]interface{}{
		"endpoint": endpoint,
	})
	return api, nil
}

func logout(ctx context.Context, client *ucsm.Client) {
	if err := client.Logout(ctx); err != nil {
		tflog.Warn(ctx, "UCS Manager logout failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
