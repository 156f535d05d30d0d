package system

import (
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/host"

	"github.com/sentineledge/hostreport/pkg/models"
)

// windowsVersion is a parsed "major.minor.build" Windows version.
type windowsVersion struct {
	major, minor, build int
}

// windows11Build is the first build number shipped as Windows 11, which
// still reports itself as NT 10.0.
const windows11Build = 22000

var windowsReleases = map[[2]int]string{
	{5, 0}:  "Windows 2000",
	{5, 1}:  "Windows XP",
	{5, 2}:  "Windows Server 2003",
	{6, 0}:  "Windows Vista",
	{6, 1}:  "Windows 7",
	{6, 2}:  "Windows 8",
	{6, 3}:  "Windows 8.1",
	{10, 0}: "Windows 10",
}

// parseWindowsVersion reads the leading "major.minor.build" of strings such
// as "10.0.22631.4169 Build 22631.4169".
func parseWindowsVersion(s string) (windowsVersion, bool) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return windowsVersion{}, false
	}
	parts := strings.Split(fields[0], ".")
	if len(parts) < 2 {
		return windowsVersion{}, false
	}
	var v windowsVersion
	var err error
	if v.major, err = strconv.Atoi(parts[0]); err != nil {
		return windowsVersion{}, false
	}
	if v.minor, err = strconv.Atoi(parts[1]); err != nil {
		return windowsVersion{}, false
	}
	if len(parts) > 2 {
		v.build, _ = strconv.Atoi(parts[2])
	}
	return v, true
}

// WindowsReleaseName maps a Windows version to its marketing name. ok is
// false for versions missing from the table.
func WindowsReleaseName(major, minor, build int) (string, bool) {
	if major == 10 && minor == 0 && build >= windows11Build {
		return "Windows 11", true
	}
	name, ok := windowsReleases[[2]int{major, minor}]
	return name, ok
}

// osInfoFrom turns gopsutil host info into OSInfo. Windows versions found in
// the release table get their marketing name; everything else keeps the raw
// platform strings.
func osInfoFrom(info *host.InfoStat) models.OSInfo {
	out := models.OSInfo{
		Name:         displayOSName(info.OS),
		Version:      info.KernelVersion,
		Platform:     strings.TrimSpace(info.Platform + " " + info.PlatformVersion),
		Architecture: info.KernelArch,
	}

	if info.OS != "windows" {
		return out
	}

	out.Version = info.PlatformVersion
	if v, ok := parseWindowsVersion(info.PlatformVersion); ok {
		if v.build > 0 {
			out.Build = strconv.Itoa(v.build)
		}
		if name, ok := WindowsReleaseName(v.major, v.minor, v.build); ok {
			out.Name = name
		}
	}
	return out
}

var osNames = map[string]string{
	"freebsd": "FreeBSD",
	"netbsd":  "NetBSD",
	"openbsd": "OpenBSD",
	"aix":     "AIX",
}

func displayOSName(goos string) string {
	if name, ok := osNames[goos]; ok {
		return name
	}
	if goos == "" {
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}
