// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Command ucs_host_firmware_packages is an Ansible binary module managing host
// firmware packages on Cisco UCS Manager. Ansible runs it with the path of a
// JSON file holding module arguments and reads a JSON result from stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"terraform-provider-ucs/internal/hostpack"
	"terraform-provider-ucs/internal/ucsm"
)

type moduleArgs struct {
	Hostname string `json:"hostname"`
	Username string `json:"username"`
	Password string `json:"password"`
	Port     int    `json:"port"`
	UseSSL   *bool  `json:"use_ssl"`
	UseProxy *bool  `json:"use_proxy"`
	Proxy    string `json:"proxy"`

	Name string `json:"name"`
	// Optional attributes left out of the arguments keep their remote value.
	Descr                   *string  `json:"descr"`
	BladeBundleVersion      *string  `json:"blade_bundle_version"`
	RackBundleVersion       *string  `json:"rack_bundle_version"`
	ExcludeServerComponents []string `json:"exclude_server_components"`
	State                   string   `json:"state"`

	CheckMode bool `json:"_ansible_check_mode"`
}

type moduleResult struct {
	Changed bool   `json:"changed"`
	Failed  bool   `json:"failed,omitempty"`
	Msg     string `json:"msg,omitempty"`
}

// connectFunc opens a session and returns the store with a function ending the session.
type connectFunc func(ctx context.Context, cfg ucsm.Config) (hostpack.Store, func(), error)

func connectUcsm(ctx context.Context, cfg ucsm.Config) (hostpack.Store, func(), error) {
	client, err := ucsm.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return ucsm.NewHandle(client), func() { _ = client.Logout(ctx) }, nil
}

func main() {
	var res moduleResult
	if len(os.Args) < 2 {
		res = moduleResult{Failed: true, Msg: "No argument file provided"}
	} else {
		res = run(context.Background(), os.Args[1], connectUcsm)
	}

	out, err := json.Marshal(res)
	if err != nil {
		out = []byte(`{"failed": true, "msg": "cannot encode module result"}`)
		res.Failed = true
	}
	fmt.Println(string(out))

	if res.Failed {
		os.Exit(1)
	}
}

func run(ctx context.Context, argsPath string, connect connectFunc) moduleResult {
	data, err := os.ReadFile(argsPath)
	if err != nil {
		return moduleResult{Failed: true, Msg: fmt.Sprintf("cannot read argument file: %s", err)}
	}

	args, err := parseArgs(data)
	if err != nil {
		return moduleResult{Failed: true, Msg: err.Error()}
	}

	desired, err := args.desired()
	if err != nil {
		return moduleResult{Failed: true, Msg: err.Error()}
	}

	store, logout, err := connect(ctx, args.config())
	if err != nil {
		return moduleResult{Failed: true, Msg: fmt.Sprintf("login error: %s", err)}
	}
	defer logout()

	reconciler := &hostpack.Reconciler{Store: store, CheckMode: args.CheckMode}
	result := reconciler.Reconcile(ctx, desired)
	return moduleResult{
		Changed: result.Changed,
		Failed:  result.Failed(),
		Msg:     result.Msg(),
	}
}

// parseArgs accepts both the plain argument object and the ANSIBLE_MODULE_ARGS envelope.
func parseArgs(data []byte) (moduleArgs, error) {
	var envelope struct {
		Args *json.RawMessage `json:"ANSIBLE_MODULE_ARGS"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return moduleArgs{}, fmt.Errorf("cannot parse argument file: %w", err)
	}
	if envelope.Args != nil {
		data = *envelope.Args
	}

	var args moduleArgs
	if err := json.Unmarshal(data, &args); err != nil {
		return moduleArgs{}, fmt.Errorf("cannot parse argument file: %w", err)
	}

	var missing []string
	if args.Hostname == "" {
		missing = append(missing, "hostname")
	}
	if args.Password == "" {
		missing = append(missing, "password")
	}
	if args.Name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return moduleArgs{}, fmt.Errorf("missing required arguments: %s", strings.Join(missing, ", "))
	}

	if args.Username == "" {
		args.Username = "admin"
	}
	return args, nil
}

func (a moduleArgs) desired() (hostpack.DesiredState, error) {
	presence, err := hostpack.ParsePresence(a.State)
	if err != nil {
		return hostpack.DesiredState{}, err
	}
	desired := hostpack.DesiredState{
		Name:                    a.Name,
		ExcludeServerComponents: a.ExcludeServerComponents,
		Presence:                presence,
	}
	optional := []struct {
		value *string
		field *string
		attr  hostpack.Attr
	}{
		{a.Descr, &desired.Descr, hostpack.AttrDescr},
		{a.BladeBundleVersion, &desired.BladeBundleVersion, hostpack.AttrBladeBundleVersion},
		{a.RackBundleVersion, &desired.RackBundleVersion, hostpack.AttrRackBundleVersion},
	}
	for _, o := range optional {
		if o.value == nil {
			desired.Unset |= o.attr
			continue
		}
		*o.field = *o.value
	}

	desired = desired.Normalize()
	if err := desired.Validate(); err != nil {
		return hostpack.DesiredState{}, err
	}
	return desired, nil
}

func (a moduleArgs) config() ucsm.Config {
	useSSL := a.UseSSL == nil || *a.UseSSL
	useProxy := a.UseProxy == nil || *a.UseProxy

	scheme, port := "https", a.Port
	if !useSSL {
		scheme = "http"
	}
	if port == 0 {
		port = 443
		if !useSSL {
			port = 80
		}
	}

	cfg := ucsm.Config{
		Endpoint: scheme + "://" + net.JoinHostPort(a.Hostname, strconv.Itoa(port)),
		Username: a.Username,
		Password: a.Password,
	}
	if useProxy {
		cfg.Proxy = a.Proxy
	}
	return cfg
}
