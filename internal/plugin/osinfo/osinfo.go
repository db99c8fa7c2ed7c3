// Package osinfo reports information about the host operating system.
package osinfo

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
	"github.com/xcenweb/delin-ocr/internal/plugin"
	"go.uber.org/zap"
)

// Info is everything the plugin reports, in one value.
type Info struct {
	Platform string `json:"platform"`
	Arch     string `json:"arch"`
	Family   string `json:"family"`
	OSType   string `json:"osType"`
	Version  string `json:"version"`
	Hostname string `json:"hostname"`
	Locale   string `json:"locale"`
	Distro   string `json:"distro"`
}

// Plugin is the OS info service. Host details are read once in Init.
type Plugin struct {
	log      *zap.Logger
	hostInfo func() (*host.InfoStat, error)
	getenv   func(string) string
	info     Info
}

// New returns the OS info plugin.
func New(h *plugin.Host) *Plugin {
	return &Plugin{log: h.Logger(plugin.OS), hostInfo: host.Info, getenv: os.Getenv}
}

func (p *Plugin) Name() string { return plugin.OS }

// Init gathers the host details. A gopsutil failure only degrades the
// version and distro fields.
func (p *Plugin) Init() error {
	info := Info{
		Platform: runtime.GOOS,
		Arch:     arch(runtime.GOARCH),
		Family:   family(runtime.GOOS),
		OSType:   osType(runtime.GOOS),
		Distro:   runtime.GOOS,
		Locale:   locale(p.getenv),
	}

	hi, err := p.hostInfo()
	if err != nil {
		p.log.Warn("host info unavailable", zap.Error(err))
		if name, err := os.Hostname(); err == nil {
			info.Hostname = name
		}
	} else {
		info.Hostname = hi.Hostname
		info.Version = hi.PlatformVersion
		if info.Version == "" {
			info.Version = hi.KernelVersion
		}
		info.Distro = distro(runtime.GOOS, hi)
	}

	p.info = info
	p.log.Debug("os info", zap.Any("info", info))
	return nil
}

// Info returns all fields at once.
func (p *Plugin) Info() Info { return p.info }

// Platform returns the OS name as Go reports it, e.g. "linux".
func (p *Plugin) Platform() string { return p.info.Platform }

// Arch returns the CPU architecture, e.g. "x86_64" or "aarch64".
func (p *Plugin) Arch() string { return p.info.Arch }

// Family returns "windows" or "unix".
func (p *Plugin) Family() string { return p.info.Family }

// OSType returns "linux", "windows", "macos" or the platform name.
func (p *Plugin) OSType() string { return p.info.OSType }

// Version returns the OS version.
func (p *Plugin) Version() string { return p.info.Version }

// Hostname returns the machine host name.
func (p *Plugin) Hostname() string { return p.info.Hostname }

// Locale returns a BCP-47 tag derived from the environment, or "".
func (p *Plugin) Locale() string { return p.info.Locale }

// Distro returns a human readable OS description.
func (p *Plugin) Distro() string { return p.info.Distro }

func arch(goarch string) string {
	switch goarch {
	case "amd64":
		return "x86_64"
	case "386":
		return "x86"
	case "arm64":
		return "aarch64"
	default:
		return goarch
	}
}

func family(goos string) string {
	if goos == "windows" {
		return "windows"
	}
	return "unix"
}

func osType(goos string) string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}

// locale reads LC_ALL, LC_MESSAGES or LANG, e.g. "zh_CN.UTF-8" -> "zh-CN".
func locale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

func distro(goos string, info *host.InfoStat) string {
	switch goos {
	case "windows":
		return fmt.Sprintf("Windows %s (%s)", info.Platform, info.PlatformVersion)
	case "darwin":
		return fmt.Sprintf("macOS %s", info.PlatformVersion)
	}
	if info.Platform == "" {
		return goos
	}
	if info.PlatformVersion != "" {
		return fmt.Sprintf("%s %s", info.Platform, info.PlatformVersion)
	}
	return info.Platform
}
