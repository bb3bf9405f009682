// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"terraform-provider-ucs/internal/hostpack"
	"terraform-provider-ucs/internal/ucsm"
	"terraform-provider-ucs/internal/ucsm/mock"
	"terraform-provider-ucs/internal/ucsm/ucsmtest"

	"github.com/google/go-cmp/cmp"
)

func writeArgs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "args")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func mockConnect(store *mock.Store) connectFunc {
	return func(ctx context.Context, cfg ucsm.Config) (hostpack.Store, func(), error) {
		return store, func() {}, nil
	}
}

func TestRun(t *testing.T) {
	store := &mock.Store{}
	args := writeArgs(t, `{
		"hostname": "172.16.143.150",
		"username": "admin",
		"password": "password",
		"name": "Pkg1",
		"descr": "d",
		"rack_bundle_version": "3.1(2c)C",
		"exclude_server_components": ["local-disk"]
	}`)

	got := run(context.Background(), args, mockConnect(store))
	if diff := cmp.Diff(moduleResult{Changed: true}, got); diff != "" {
		t.Fatalf("run() mismatch (-want +got):\n%s", diff)
	}
	if store.Get("org-root/fw-host-pack-Pkg1/exclude-server-component-local-disk") == nil {
		t.Errorf("excluded component was not created")
	}

	got = run(context.Background(), args, mockConnect(store))
	if diff := cmp.Diff(moduleResult{Changed: false}, got); diff != "" {
		t.Errorf("second run() mismatch (-want +got):\n%s", diff)
	}
}

func TestRun_omittedAttributesKept(t *testing.T) {
	store := &mock.Store{}
	store.Seed(ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, "org-root/fw-host-pack-Pkg1", map[string]string{
		"name":               "Pkg1",
		"descr":              "old",
		"bladeBundleVersion": "4.2(3d)B",
		"rackBundleVersion":  "",
	}))
	args := writeArgs(t, `{
		"hostname": "ucsm", "password": "password",
		"name": "Pkg1", "descr": "d", "rack_bundle_version": "3.1(2c)C"
	}`)

	got := run(context.Background(), args, mockConnect(store))
	if diff := cmp.Diff(moduleResult{Changed: true}, got); diff != "" {
		t.Fatalf("run() mismatch (-want +got):\n%s", diff)
	}
	want := map[string]string{
		"name":               "Pkg1",
		"descr":              "d",
		"bladeBundleVersion": "4.2(3d)B",
		"rackBundleVersion":  "3.1(2c)C",
	}
	if diff := cmp.Diff(want, store.Get("org-root/fw-host-pack-Pkg1").Attrs); diff != "" {
		t.Errorf("package attributes mismatch (-want +got):\n%s", diff)
	}

	// an explicit empty value still clears the attribute
	args = writeArgs(t, `{
		"hostname": "ucsm", "password": "password",
		"name": "Pkg1", "blade_bundle_version": ""
	}`)
	got = run(context.Background(), args, mockConnect(store))
	if diff := cmp.Diff(moduleResult{Changed: true}, got); diff != "" {
		t.Fatalf("run() mismatch (-want +got):\n%s", diff)
	}
	pack := store.Get("org-root/fw-host-pack-Pkg1")
	if pack.Get("bladeBundleVersion") != "" || pack.Get("descr") != "d" || pack.Get("rackBundleVersion") != "3.1(2c)C" {
		t.Errorf("package attributes = %v, want only bladeBundleVersion cleared", pack.Attrs)
	}
}

func TestRun_absentCheckMode(t *testing.T) {
	store := &mock.Store{}
	store.Seed(ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, "org-root/fw-host-pack-Pkg1", map[string]string{"name": "Pkg1"}))
	args := writeArgs(t, `{"ANSIBLE_MODULE_ARGS": {
		"hostname": "ucsm", "password": "password", "name": "Pkg1",
		"state": "absent", "_ansible_check_mode": true
	}}`)

	got := run(context.Background(), args, mockConnect(store))
	if diff := cmp.Diff(moduleResult{Changed: true}, got); diff != "" {
		t.Fatalf("run() mismatch (-want +got):\n%s", diff)
	}
	if store.Get("org-root/fw-host-pack-Pkg1") == nil {
		t.Errorf("check mode removed the package")
	}
}

func TestRun_failures(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		connect connectFunc
		wantMsg string
	}{
		{
			name:    "MissingArgs",
			args:    `{"hostname": "ucsm"}`,
			wantMsg: "missing required arguments: password, name",
		},
		{
			name:    "BadState",
			args:    `{"hostname": "ucsm", "password": "p", "name": "Pkg1", "state": "gone"}`,
			wantMsg: "invalid state",
		},
		{
			name:    "UnknownComponent",
			args:    `{"hostname": "ucsm", "password": "p", "name": "Pkg1", "exclude_server_components": ["TBD"]}`,
			wantMsg: "invalid exclude_server_components",
		},
		{
			name: "Login",
			args: `{"hostname": "ucsm", "password": "p", "name": "Pkg1"}`,
			connect: func(ctx context.Context, cfg ucsm.Config) (hostpack.Store, func(), error) {
				return nil, nil, errors.New("connection refused")
			},
			wantMsg: "login error: connection refused",
		},
		{
			name: "Remote",
			args: `{"hostname": "ucsm", "password": "p", "name": "Pkg1"}`,
			connect: mockConnect(&mock.Store{
				Fail: func(ev mock.Event) error {
					if ev.Method == "Commit" {
						return errors.New("ERR-MO-illegal-creation")
					}
					return nil
				},
			}),
			wantMsg: "setup error: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			connect := tt.connect
			if connect == nil {
				connect = mockConnect(&mock.Store{})
			}
			got := run(context.Background(), writeArgs(t, tt.args), connect)
			if !got.Failed {
				t.Fatalf("run() Failed = false, want true")
			}
			if got.Changed {
				t.Errorf("run() Changed = true, want false")
			}
			if !strings.Contains(got.Msg, tt.wantMsg) {
				t.Errorf("run() Msg = %q, want it to contain %q", got.Msg, tt.wantMsg)
			}
		})
	}
}

func TestRun_ucsm(t *testing.T) {
	srv := ucsmtest.NewServer()
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, _ := strconv.Atoi(u.Port())

	args := writeArgs(t, `{
		"hostname": "`+u.Hostname()+`",
		"port": `+strconv.Itoa(port)+`,
		"use_ssl": false,
		"username": "`+ucsmtest.Username+`",
		"password": "`+ucsmtest.Password+`",
		"name": "Pkg1",
		"exclude_server_components": ["adaptor", "local-disk"]
	}`)

	got := run(context.Background(), args, connectUcsm)
	if diff := cmp.Diff(moduleResult{Changed: true}, got); diff != "" {
		t.Fatalf("run() mismatch (-want +got):\n%s", diff)
	}
	if n := len(srv.Store.Children("org-root/fw-host-pack-Pkg1", ucsm.ClassFirmwareExcludeServerComponent)); n != 2 {
		t.Errorf("got %d excluded components, want 2", n)
	}
	if srv.Sessions() != 0 {
		t.Errorf("Sessions() = %d, session was not logged out", srv.Sessions())
	}
}

func TestModuleArgs_config(t *testing.T) {
	no := false
	tests := []struct {
		args moduleArgs
		want ucsm.Config
	}{
		{
			args: moduleArgs{Hostname: "ucsm", Username: "admin", Password: "p", Proxy: "http://proxy:3128"},
			want: ucsm.Config{Endpoint: "https://ucsm:443", Username: "admin", Password: "p", Proxy: "http://proxy:3128"},
		},
		{
			args: moduleArgs{Hostname: "ucsm", Username: "admin", Password: "p", UseSSL: &no, UseProxy: &no, Proxy: "http://proxy:3128"},
			want: ucsm.Config{Endpoint: "http://ucsm:80", Username: "admin", Password: "p"},
		},
		{
			args: moduleArgs{Hostname: "fd00::1", Port: 8443, Username: "admin", Password: "p"},
			want: ucsm.Config{Endpoint: "https://[fd00::1]:8443", Username: "admin", Password: "p"},
		},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.args.config()); diff != "" {
			t.Errorf("config() mismatch (-want +got):\n%s", diff)
		}
	}
}
