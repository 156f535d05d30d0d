package system

import (
	"testing"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/stretchr/testify/assert"

	"github.com/sentineledge/hostreport/pkg/models"
)

func TestWindowsReleaseName(t *testing.T) {
	tests := []struct {
		major, minor, build int
		want                string
		ok                  bool
	}{
		{5, 1, 2600, "Windows XP", true},
		{5, 2, 3790, "Windows Server 2003", true},
		{6, 0, 6002, "Windows Vista", true},
		{6, 1, 7601, "Windows 7", true},
		{6, 2, 9200, "Windows 8", true},
		{6, 3, 9600, "Windows 8.1", true},
		{10, 0, 19045, "Windows 10", true},
		{10, 0, 22631, "Windows 11", true},
		{4, 0, 1381, "", false},
	}
	for _, tt := range tests {
		got, ok := WindowsReleaseName(tt.major, tt.minor, tt.build)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestOSInfoFrom(t *testing.T) {
	tests := []struct {
		name string
		info *host.InfoStat
		want models.OSInfo
	}{
		{
			name: "windows 11",
			info: &host.InfoStat{
				OS:              "windows",
				Platform:        "Microsoft Windows 11 Pro",
				PlatformVersion: "10.0.22631.4169 Build 22631.4169",
				KernelArch:      "x86_64",
			},
			want: models.OSInfo{
				Name:         "Windows 11",
				Version:      "10.0.22631.4169 Build 22631.4169",
				Platform:     "Microsoft Windows 11 Pro 10.0.22631.4169 Build 22631.4169",
				Architecture: "x86_64",
				Build:        "22631",
			},
		},
		{
			name: "unknown windows keeps raw name",
			info: &host.InfoStat{OS: "windows", PlatformVersion: "11.2.30000"},
			want: models.OSInfo{Name: "Windows", Version: "11.2.30000", Platform: "11.2.30000", Build: "30000"},
		},
		{
			name: "darwin",
			info: &host.InfoStat{OS: "darwin", Platform: "darwin", PlatformVersion: "14.6", KernelVersion: "23.6.0", KernelArch: "arm64"},
			want: models.OSInfo{Name: "Darwin", Version: "23.6.0", Platform: "darwin 14.6", Architecture: "arm64"},
		},
		{
			name: "freebsd",
			info: &host.InfoStat{OS: "freebsd", KernelVersion: "14.1-RELEASE"},
			want: models.OSInfo{Name: "FreeBSD", Version: "14.1-RELEASE"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, osInfoFrom(tt.info))
		})
	}
}
