// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package provider

import (
	"fmt"
	"os"
	"testing"

	"github.com/hashicorp/terraform-plugin-framework/providerserver"
	"github.com/hashicorp/terraform-plugin-go/tfprotov6"
	"github.com/joho/godotenv"
)

var (
	creds TestingServerCredentials
)

// TestingServerCredentials point at a real UCS Manager and CIMC, used by tests
// which cannot run against the fake XML API server.
type TestingServerCredentials struct {
	Username     string
	Password     string
	Endpoint     string
	CimcEndpoint string
	Insecure     bool
}

// testAccProtoV6ProviderFactories are used to instantiate a provider during
// acceptance testing. The factory function will be invoked for every Terraform
// CLI command executed to create a provider server to which the CLI can
// reattach.
var testAccProtoV6ProviderFactories = map[string]func() (tfprotov6.ProviderServer, error){
	"ucs": providerserver.NewProtocol6WithError(New("test")()),
}

// testAccPreCheck skips tests needing real equipment when no credentials were given.
func testAccPreCheck(t *testing.T) {
	if creds.Endpoint == "" || creds.Username == "" || creds.Password == "" {
		t.Skip("TF_TESTING_ENDPOINT, TF_TESTING_USERNAME and TF_TESTING_PASSWORD must be set")
	}
}

func testAccServerBlock(username, password, endpoint string) string {
	return fmt.Sprintf(`
		server {
		  username     = "%s"
		  password     = "%s"
		  endpoint     = "%s"
		  ssl_insecure = true
		}
	`, username, password, endpoint)
}

func init() {
	err := godotenv.Load("ucs_test.env")
	if err != nil {
		fmt.Println(err.Error())
	}

	creds = TestingServerCredentials{
		Username:     os.Getenv("TF_TESTING_USERNAME"),
		Password:     os.Getenv("TF_TESTING_PASSWORD"),
		Endpoint:     os.Getenv("TF_TESTING_ENDPOINT"),
		CimcEndpoint: os.Getenv("TF_TESTING_CIMC_ENDPOINT"),
		Insecure:     true,
	}
}
