// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ucsm_test

import (
	"context"
	"errors"
	"testing"

	"terraform-provider-ucs/internal/ucsm"
	"terraform-provider-ucs/internal/ucsm/ucsmtest"

	"github.com/google/go-cmp/cmp"
)

func connect(t *testing.T, srv *ucsmtest.Server) *ucsm.Client {
	t.Helper()
	client, err := ucsm.Connect(context.Background(), ucsm.Config{
		Endpoint: srv.URL,
		Username: ucsmtest.Username,
		Password: ucsmtest.Password,
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return client
}

func TestClient_Login(t *testing.T) {
	srv := ucsmtest.NewServer()
	defer srv.Close()

	client := connect(t, srv)
	if client.Cookie() == "" {
		t.Errorf("Cookie() is empty after login")
	}
	if client.Version() != ucsmtest.Version {
		t.Errorf("Version() = %q, want %q", client.Version(), ucsmtest.Version)
	}
	if client.RefreshPeriod().Seconds() != 600 {
		t.Errorf("RefreshPeriod() = %v, want 10m", client.RefreshPeriod())
	}
	if err := client.Refresh(context.Background()); err != nil {
		t.Errorf("Refresh() error = %v", err)
	}

	if err := client.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if srv.Sessions() != 0 {
		t.Errorf("Sessions() = %d after logout, want 0", srv.Sessions())
	}
	if _, err := client.ResolveDn(context.Background(), "org-root"); !errors.Is(err, ucsm.ErrNotLoggedIn) {
		t.Errorf("ResolveDn() after logout error = %v, want %v", err, ucsm.ErrNotLoggedIn)
	}
}

func TestClient_Login_wrongPassword(t *testing.T) {
	srv := ucsmtest.NewServer()
	defer srv.Close()

	_, err := ucsm.Connect(context.Background(), ucsm.Config{
		Endpoint: srv.URL,
		Username: ucsmtest.Username,
		Password: "wrong",
	})

	var errResp *ucsm.ErrorResponse
	if !errors.As(err, &errResp) {
		t.Fatalf("Connect() error = %v, want *ucsm.ErrorResponse", err)
	}
	if errResp.Method != "aaaLogin" || errResp.Code != "551" {
		t.Errorf("got method %q code %q, want aaaLogin 551", errResp.Method, errResp.Code)
	}
}

func TestClient_ResolveAndConfigure(t *testing.T) {
	srv := ucsmtest.NewServer()
	defer srv.Close()
	ctx := context.Background()

	client := connect(t, srv)
	defer client.Logout(ctx)

	mo, err := client.ResolveDn(ctx, "org-root/fw-host-pack-p1")
	if err != nil {
		t.Fatalf("ResolveDn() error = %v", err)
	}
	if mo != nil {
		t.Fatalf("ResolveDn() = %v, want nil", mo)
	}

	pack := ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, "org-root/fw-host-pack-p1", map[string]string{
		"name":              "p1",
		"descr":             "a & b",
		"rackBundleVersion": "3.1(2c)C",
	})
	pack.Status = ucsm.StatusCreatedModified
	comp := ucsm.NewManagedObject(ucsm.ClassFirmwareExcludeServerComponent, "org-root/fw-host-pack-p1/exclude-server-component-adaptor", map[string]string{
		"serverComponent": "adaptor",
	})
	comp.Status = ucsm.StatusCreatedModified

	out, err := client.ConfMos(ctx, []*ucsm.ManagedObject{pack, comp})
	if err != nil {
		t.Fatalf("ConfMos() error = %v", err)
	}
	if len(out) != 2 {
		t.Errorf("ConfMos() returned %d objects, want 2", len(out))
	}

	mo, err = client.ResolveDn(ctx, "org-root/fw-host-pack-p1")
	if err != nil {
		t.Fatalf("ResolveDn() error = %v", err)
	}
	want := map[string]string{"name": "p1", "descr": "a & b", "rackBundleVersion": "3.1(2c)C"}
	if diff := cmp.Diff(want, mo.Attrs); diff != "" {
		t.Errorf("Attrs mismatch (-want +got):\n%s", diff)
	}
	if mo.ClassID != ucsm.ClassFirmwareComputeHostPack {
		t.Errorf("ClassID = %q", mo.ClassID)
	}

	children, err := client.ResolveChildren(ctx, mo.Dn, ucsm.ClassFirmwareExcludeServerComponent)
	if err != nil {
		t.Fatalf("ResolveChildren() error = %v", err)
	}
	if len(children) != 1 || children[0].Get("serverComponent") != "adaptor" {
		t.Errorf("ResolveChildren() = %v, want single adaptor component", children)
	}

	del := ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, mo.Dn, nil)
	del.Status = ucsm.StatusDeleted
	if _, err := client.ConfMos(ctx, []*ucsm.ManagedObject{del}); err != nil {
		t.Fatalf("ConfMos(deleted) error = %v", err)
	}
	if srv.Store.Get(mo.Dn) != nil || srv.Store.Get(comp.Dn) != nil {
		t.Errorf("objects still present after delete")
	}
}

func TestClient_ConfMos_error(t *testing.T) {
	srv := ucsmtest.NewServer()
	defer srv.Close()
	ctx := context.Background()

	srv.Store.Seed(ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, "org-root/fw-host-pack-p1", nil))

	client := connect(t, srv)
	defer client.Logout(ctx)

	mo := ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, "org-root/fw-host-pack-p1", nil)
	mo.Status = ucsm.StatusCreated
	_, err := client.ConfMos(ctx, []*ucsm.ManagedObject{mo})

	var errResp *ucsm.ErrorResponse
	if !errors.As(err, &errResp) {
		t.Fatalf("ConfMos() error = %v, want *ucsm.ErrorResponse", err)
	}
	if errResp.Method != "configConfMos" {
		t.Errorf("Method = %q, want configConfMos", errResp.Method)
	}
}

func TestHandle_Commit(t *testing.T) {
	srv := ucsmtest.NewServer()
	defer srv.Close()
	ctx := context.Background()

	client := connect(t, srv)
	defer client.Logout(ctx)
	h := ucsm.NewHandle(client)

	mo := ucsm.NewManagedObject(ucsm.ClassFirmwareComputeHostPack, "org-root/fw-host-pack-p2", map[string]string{"name": "p2"})
	if err := h.AddMo(mo, true); err != nil {
		t.Fatalf("AddMo() error = %v", err)
	}
	mo.Attrs["descr"] = "changed after staging"
	if err := h.AddMo(mo, true); err != nil {
		t.Fatalf("AddMo() error = %v", err)
	}
	if h.Pending() != 1 {
		t.Errorf("Pending() = %d, want 1", h.Pending())
	}
	if srv.Store.Get(mo.Dn) != nil {
		t.Fatalf("object visible before commit")
	}

	if err := h.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if h.Pending() != 0 {
		t.Errorf("Pending() = %d after commit, want 0", h.Pending())
	}

	got, err := h.QueryDn(ctx, mo.Dn)
	if err != nil {
		t.Fatalf("QueryDn() error = %v", err)
	}
	if got == nil || got.Get("descr") != "changed after staging" {
		t.Errorf("QueryDn() = %v, want committed object", got)
	}

	if err := h.RemoveMo(got); err != nil {
		t.Fatalf("RemoveMo() error = %v", err)
	}
	if err := h.Commit(ctx); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if srv.Store.Get(mo.Dn) != nil {
		t.Errorf("object still present after removal")
	}
}

func TestNewClient_endpoint(t *testing.T) {
	tests := []struct {
		endpoint string
		want     string
		wantErr  bool
	}{
		{endpoint: "ucsm.example.com", want: "https://ucsm.example.com/nuova"},
		{endpoint: "http://10.0.0.1:8080", want: "http://10.0.0.1:8080/nuova"},
		{endpoint: "https://ucsm/nuova", want: "https://ucsm/nuova"},
		{endpoint: "", wantErr: true},
		{endpoint: "https://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.endpoint, func(t *testing.T) {
			c, err := ucsm.NewClient(ucsm.Config{Endpoint: tt.endpoint})
			if tt.wantErr {
				if err == nil {
					t.Errorf("NewClient() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() error = %v", err)
			}
			if c.URL() != tt.want {
				t.Errorf("URL() = %q, want %q", c.URL(), tt.want)
			}
		})
	}
}
