package osinfo

import (
	"errors"
	"runtime"
	"testing"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcenweb/delin-ocr/internal/plugin"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestInitWithHostInfo(t *testing.T) {
	p := New(&plugin.Host{})
	p.getenv = env(map[string]string{"LANG": "zh_CN.UTF-8"})
	p.hostInfo = func() (*host.InfoStat, error) {
		return &host.InfoStat{Hostname: "scanner", Platform: "ubuntu", PlatformVersion: "24.04", KernelVersion: "6.8.0"}, nil
	}
	require.NoError(t, p.Init())

	assert.Equal(t, runtime.GOOS, p.Platform())
	assert.Equal(t, "scanner", p.Hostname())
	assert.Equal(t, "24.04", p.Version())
	assert.Equal(t, "zh-CN", p.Locale())
	assert.Equal(t, p.Info().Arch, p.Arch())
	if runtime.GOOS == "linux" {
		assert.Equal(t, "ubuntu 24.04", p.Distro())
		assert.Equal(t, "unix", p.Family())
		assert.Equal(t, "linux", p.OSType())
	}
}

func TestInitDegradesWithoutHostInfo(t *testing.T) {
	p := New(&plugin.Host{})
	p.getenv = env(nil)
	p.hostInfo = func() (*host.InfoStat, error) { return nil, errors.New("no /proc") }

	require.NoError(t, p.Init())
	assert.Equal(t, runtime.GOOS, p.Distro())
	assert.Empty(t, p.Version())
	assert.Empty(t, p.Locale())
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "x86_64", arch("amd64"))
	assert.Equal(t, "aarch64", arch("arm64"))
	assert.Equal(t, "riscv64", arch("riscv64"))
	assert.Equal(t, "windows", family("windows"))
	assert.Equal(t, "unix", family("darwin"))
	assert.Equal(t, "macos", osType("darwin"))

	assert.Equal(t, "en-US", locale(env(map[string]string{"LC_ALL": "en_US@euro", "LANG": "zh_CN.UTF-8"})))
	assert.Equal(t, "zh-CN", locale(env(map[string]string{"LC_ALL": "C", "LANG": "zh_CN.UTF-8"})))

	assert.Equal(t, "macOS 14.5", distro("darwin", &host.InfoStat{PlatformVersion: "14.5"}))
	assert.Equal(t, "Windows Microsoft Windows 11 Pro (10.0.22631)", distro("windows", &host.InfoStat{Platform: "Microsoft Windows 11 Pro", PlatformVersion: "10.0.22631"}))
	assert.Equal(t, "linux", distro("linux", &host.InfoStat{}))
	assert.Equal(t, "arch", distro("linux", &host.InfoStat{Platform: "arch"}))
}
