// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"regexp"
	"testing"

	"github.com/hashicorp/terraform-plugin-testing/helper/resource"
)

func TestAccRackFirmwareInventoryDataSource(t *testing.T) {
	resource.Test(t, resource.TestCase{
		PreCheck: func() {
			testAccPreCheck(t)
			if creds.CimcEndpoint == "" {
				t.Skip("TF_TESTING_CIMC_ENDPOINT must be set")
			}
		},
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: testAccRackFirmwareInventoryConfig(creds, "bios"),
				Check: resource.ComposeAggregateTestCheckFunc(
					resource.TestCheckResourceAttr("data.ucs_rack_firmware_inventory.inv", "id", FIRMWARE_INVENTORY_ENDPOINT),
					resource.TestCheckResourceAttrSet("data.ucs_rack_firmware_inventory.inv", "inventory.0.version"),
				),
			},
		},
	})
}

func testAccRackFirmwareInventoryConfig(testingInfo TestingServerCredentials, filter string) string {
	return fmt.Sprintf(`
	data "ucs_rack_firmware_inventory" "inv" {
		%s
		name_filter = "%s"
	}
	`,
		testAccServerBlock(testingInfo.Username, testingInfo.Password, "https://"+testingInfo.CimcEndpoint),
		filter,
	)
}

func TestAccRackFirmwareInventoryDataSource_serverRequired(t *testing.T) {
	resource.Test(t, resource.TestCase{
		ProtoV6ProviderFactories: testAccProtoV6ProviderFactories,
		Steps: []resource.TestStep{
			{
				Config: `
				provider "ucs" {
					endpoint = "ucsm.example.com"
					username = "admin"
					password = "password"
				}

				data "ucs_rack_firmware_inventory" "inv" {
				}
				`,
				ExpectError: regexp.MustCompile(`(?i)server`),
			},
		},
	})
}
