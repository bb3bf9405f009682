// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Package ucsmtest runs a fake UCS Manager XML API backed by an in-memory store.
package ucsmtest

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"terraform-provider-ucs/internal/ucsm"
	"terraform-provider-ucs/internal/ucsm/mock"
)

const (
	Username = "admin"
	Password = "password"
	Version  = "4.2(3d)"
)

// Server is a fake UCS Manager. Objects live in Store, which tests may seed and inspect.
type Server struct {
	*httptest.Server
	Store *mock.Store

	mu      sync.Mutex
	cookies map[string]bool
	next    int
	// Methods records every XML API method received, in order.
	Methods []string
}

func NewServer() *Server {
	s := &Server{
		Store:   &mock.Store{},
		cookies: make(map[string]bool),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Sessions returns number of sessions which are still logged in.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cookies)
}

type request struct {
	XMLName    xml.Name
	InName     string `xml:"inName,attr"`
	InPassword string `xml:"inPassword,attr"`
	InCookie   string `xml:"inCookie,attr"`
	Cookie     string `xml:"cookie,attr"`
	Dn         string `xml:"dn,attr"`
	InDn       string `xml:"inDn,attr"`
	ClassId    string `xml:"classId,attr"`
	InConfigs  struct {
		Pairs []struct {
			Key    string              `xml:"key,attr"`
			Object *ucsm.ManagedObject `xml:",any"`
		} `xml:"pair"`
	} `xml:"inConfigs"`
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/nuova" {
		http.NotFound(w, r)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req request
	if err := xml.Unmarshal(body, &req); err != nil {
		writeError(w, "error", "ERR-xml-parse-error", err.Error())
		return
	}
	method := req.XMLName.Local

	s.mu.Lock()
	s.Methods = append(s.Methods, method)
	s.mu.Unlock()

	switch method {
	case "aaaLogin":
		if req.InName != Username || req.InPassword != Password {
			writeError(w, method, "551", "Authentication failed")
			return
		}
		s.mu.Lock()
		s.next++
		cookie := fmt.Sprintf("cookie-%d", s.next)
		s.cookies[cookie] = true
		s.mu.Unlock()
		fmt.Fprintf(w, `<aaaLogin cookie="" response="yes" outCookie="%s" outRefreshPeriod="600" outPriv="admin" outDomains="" outChannel="noencssl" outEvtChannel="noencssl" outSessionId="web_1" outVersion="%s"></aaaLogin>`, cookie, Version)
	case "aaaRefresh":
		if !s.valid(req.InCookie) {
			writeError(w, method, "552", "Authorization required")
			return
		}
		fmt.Fprintf(w, `<aaaRefresh cookie="" response="yes" outCookie="%s" outRefreshPeriod="600"></aaaRefresh>`, req.InCookie)
	case "aaaLogout":
		s.mu.Lock()
		delete(s.cookies, req.InCookie)
		s.mu.Unlock()
		fmt.Fprint(w, `<aaaLogout cookie="" response="yes" outStatus="success"></aaaLogout>`)
	case "configResolveDn":
		if !s.valid(req.Cookie) {
			writeError(w, method, "552", "Authorization required")
			return
		}
		var objects []*ucsm.ManagedObject
		if mo := s.Store.Get(req.Dn); mo != nil {
			objects = append(objects, mo)
		}
		writeObjects(w, method, req.Cookie, "outConfig", objects)
	case "configResolveChildren":
		if !s.valid(req.Cookie) {
			writeError(w, method, "552", "Authorization required")
			return
		}
		writeObjects(w, method, req.Cookie, "outConfigs", s.Store.Children(req.InDn, req.ClassId))
	case "configConfMos":
		if !s.valid(req.Cookie) {
			writeError(w, method, "552", "Authorization required")
			return
		}
		var mos []*ucsm.ManagedObject
		for _, pair := range req.InConfigs.Pairs {
			if pair.Object != nil {
				mos = append(mos, pair.Object)
			}
		}
		if err := s.Store.Apply(mos); err != nil {
			writeError(w, method, "103", err.Error())
			return
		}
		var buf bytes.Buffer
		fmt.Fprintf(&buf, `<configConfMos cookie="%s" response="yes"><outConfigs>`, req.Cookie)
		for _, mo := range mos {
			out, _ := xml.Marshal(mo)
			fmt.Fprintf(&buf, `<pair key="%s">%s</pair>`, mo.Dn, out)
		}
		buf.WriteString(`</outConfigs></configConfMos>`)
		_, _ = w.Write(buf.Bytes())
	default:
		writeError(w, method, "ERR-xml-parse-error", "unknown method "+method)
	}
}

func (s *Server) valid(cookie string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cookies[cookie]
}

func writeObjects(w io.Writer, method, cookie, wrapper string, objects []*ucsm.ManagedObject) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<%s cookie="%s" response="yes"><%s>`, method, cookie, wrapper)
	for _, mo := range objects {
		out, _ := xml.Marshal(mo)
		buf.Write(out)
	}
	fmt.Fprintf(&buf, `</%s></%s>`, wrapper, method)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w io.Writer, method, code, descr string) {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(descr))
	fmt.Fprintf(w, `<%s cookie="" response="yes" errorCode="%s" invocationResult="unidentified-fail" errorDescr="%s"></%s>`, method, code, buf.String(), method)
}
