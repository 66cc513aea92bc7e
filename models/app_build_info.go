// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package models holds plain data types shared between the autoenv binary
// and its internal packages.
package models

// AppBuildInfo carries immutable build-time metadata of the autoenv binary.
//
// Values are injected by linker flags (-X main.buildVersion=...) and shown
// by the -version flag.
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

// NewAppBuildInfo constructs [AppBuildInfo] from the provided build metadata.
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: buildVersion,
		buildDate:    buildDate,
		buildCommit:  buildCommit,
	}
}

func (a AppBuildInfo) BuildVersion() string {
	return a.buildVersion
}

func (a AppBuildInfo) BuildDate() string {
	return a.buildDate
}

func (a AppBuildInfo) BuildCommit() string {
	return a.buildCommit
}

// String renders the metadata as the three lines printed by -version.
func (a AppBuildInfo) String() string {
	return "Build version: " + a.buildVersion + "\n" +
		"Build date: " + a.buildDate + "\n" +
		"Build commit: " + a.buildCommit + "\n"
}
