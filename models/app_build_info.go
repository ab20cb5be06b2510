// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"fmt"
	"strings"
)

// notAvailable replaces build values that were not set by the linker.
const notAvailable = "N/A"

// AppBuildInfo is the version, date and commit the client binary was built
// from. Values come from -ldflags; unset ones read as "N/A".
type AppBuildInfo struct {
	version string
	date    string
	commit  string
}

func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		version: orNotAvailable(buildVersion),
		date:    orNotAvailable(buildDate),
		commit:  orNotAvailable(buildCommit),
	}
}

func (a AppBuildInfo) BuildVersion() string {
	return orNotAvailable(a.version)
}

func (a AppBuildInfo) BuildDate() string {
	return orNotAvailable(a.date)
}

func (a AppBuildInfo) BuildCommit() string {
	return orNotAvailable(a.commit)
}

// String formats the build info the way the client prints it on start.
func (a AppBuildInfo) String() string {
	return fmt.Sprintf("Build version: %s\nBuild date: %s\nBuild commit: %s",
		a.BuildVersion(), a.BuildDate(), a.BuildCommit())
}

func orNotAvailable(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return notAvailable
	}
	return v
}
