// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo is the version metadata linked into the tasksync binaries.
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

// shortCommitLen is the length of an abbreviated commit hash.
const shortCommitLen = 7

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

// ShortCommit returns the commit hash cut to seven characters.
func (a AppBuildInfo) ShortCommit() string {
	if len(a.buildCommit) <= shortCommitLen {
		return a.buildCommit
	}
	return a.buildCommit[:shortCommitLen]
}
