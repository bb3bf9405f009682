// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package ucsm

import "encoding/xml"

// responseStatus holds attributes present on every XML API response element.
type responseStatus struct {
	Response         string `xml:"response,attr,omitempty"`
	ErrorCode        string `xml:"errorCode,attr,omitempty"`
	ErrorDescr       string `xml:"errorDescr,attr,omitempty"`
	InvocationResult string `xml:"invocationResult,attr,omitempty"`
}

// genericResponse is used to peek at the method name and error status of any response.
type genericResponse struct {
	XMLName xml.Name
	Cookie  string `xml:"cookie,attr"`
	responseStatus
}

type aaaLoginRequest struct {
	XMLName    xml.Name `xml:"aaaLogin"`
	InName     string   `xml:"inName,attr"`
	InPassword string   `xml:"inPassword,attr"`
}

type aaaLoginResponse struct {
	XMLName          xml.Name `xml:"aaaLogin"`
	OutCookie        string   `xml:"outCookie,attr"`
	OutRefreshPeriod int      `xml:"outRefreshPeriod,attr"`
	OutVersion       string   `xml:"outVersion,attr"`
	OutSessionId     string   `xml:"outSessionId,attr"`
	responseStatus
}

type aaaRefreshRequest struct {
	XMLName    xml.Name `xml:"aaaRefresh"`
	InName     string   `xml:"inName,attr"`
	InPassword string   `xml:"inPassword,attr"`
	InCookie   string   `xml:"inCookie,attr"`
}

type aaaRefreshResponse struct {
	XMLName          xml.Name `xml:"aaaRefresh"`
	OutCookie        string   `xml:"outCookie,attr"`
	OutRefreshPeriod int      `xml:"outRefreshPeriod,attr"`
	responseStatus
}

type aaaLogoutRequest struct {
	XMLName  xml.Name `xml:"aaaLogout"`
	InCookie string   `xml:"inCookie,attr"`
}

type aaaLogoutResponse struct {
	XMLName   xml.Name `xml:"aaaLogout"`
	OutStatus string   `xml:"outStatus,attr"`
	responseStatus
}

type configResolveDnRequest struct {
	XMLName        xml.Name `xml:"configResolveDn"`
	Cookie         string   `xml:"cookie,attr"`
	Dn             string   `xml:"dn,attr"`
	InHierarchical string   `xml:"inHierarchical,attr"`
}

type configResolveDnResponse struct {
	XMLName   xml.Name  `xml:"configResolveDn"`
	OutConfig outConfig `xml:"outConfig"`
	responseStatus
}

type configResolveChildrenRequest struct {
	XMLName        xml.Name `xml:"configResolveChildren"`
	Cookie         string   `xml:"cookie,attr"`
	InDn           string   `xml:"inDn,attr"`
	ClassId        string   `xml:"classId,attr,omitempty"`
	InHierarchical string   `xml:"inHierarchical,attr"`
	InFilter       struct{} `xml:"inFilter"`
}

type configResolveChildrenResponse struct {
	XMLName    xml.Name  `xml:"configResolveChildren"`
	OutConfigs outConfig `xml:"outConfigs"`
	responseStatus
}

type configConfMosRequest struct {
	XMLName        xml.Name  `xml:"configConfMos"`
	Cookie         string    `xml:"cookie,attr"`
	InHierarchical string    `xml:"inHierarchical,attr"`
	InConfigs      inConfigs `xml:"inConfigs"`
}

type configConfMosResponse struct {
	XMLName    xml.Name  `xml:"configConfMos"`
	OutConfigs inConfigs `xml:"outConfigs"`
	responseStatus
}

type outConfig struct {
	Objects []*ManagedObject `xml:",any"`
}

type inConfigs struct {
	Pairs []configPair `xml:"pair"`
}

type configPair struct {
	Key    string         `xml:"key,attr"`
	Object *ManagedObject `xml:",any"`
}
