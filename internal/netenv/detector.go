// Package netenv detects the host's network egress environment: a
// system-wide VPN tunnel, a locally listening SOCKS proxy, or a direct
// connection. All probes are injectable so tests can fake the host.
package netenv

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"grabarr/internal/command/execute"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
	"grabarr/internal/utils/logging"
)

// ifaceAddr is one address on one network interface.
type ifaceAddr struct {
	Name string
	Addr string
}

// Detector discovers the live network environment. Construct once per
// request chain with NewDetector and pass by parameter; state is a set of
// read-only probe paths plus test seams.
type Detector struct {
	ConfigPaths []string
	ProbePorts  []int
	EngineProcs []string

	// ToolVersion reports the primary tool's version for composite status
	// queries. Optional.
	ToolVersion func(ctx context.Context) (string, error)

	interfaces func() ([]ifaceAddr, error)
	runCmd     func(ctx context.Context, prog string, args []string, timeout time.Duration) (*execute.Result, error)
	dialPort   func(port int, timeout time.Duration) bool
	readFile   func(path string) ([]byte, error)
}

// NewDetector returns a detector wired to the real host.
func NewDetector() *Detector {
	return &Detector{
		ConfigPaths: consts.ProxyConfigPaths[:],
		ProbePorts:  consts.SocksProbePorts[:],
		EngineProcs: consts.ProxyEngineProcs[:],
		interfaces:  systemInterfaces,
		runCmd:      execute.RunOutput,
		dialPort:    dialLocalPort,
		readFile:    os.ReadFile,
	}
}

func systemInterfaces() ([]ifaceAddr, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var out []ifaceAddr
	for _, ifc := range ifaces {
		addrs, err := ifc.Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			out = append(out, ifaceAddr{Name: ifc.Name, Addr: a.String()})
		}
	}
	return out, nil
}

func dialLocalPort(port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// DetectMode determines the current egress mode. A system-wide tunnel takes
// precedence over a local proxy: the OS already routes all traffic, so no
// per-application proxy is needed.
func (d *Detector) DetectMode(ctx context.Context) models.NetworkMode {
	if d.tunnelActive() {
		return models.ModeVPN
	}
	if d.proxyEngineListening(ctx) {
		return models.ModeProxy
	}
	return models.ModeDirect
}

// tunnelActive reports whether a tunnel-type interface carries an address
// in a subnet used by the bundled VPN clients.
func (d *Detector) tunnelActive() bool {
	addrs, err := d.interfaces()
	if err != nil {
		logging.D(1, "Interface enumeration failed: %v", err)
		return false
	}

	for _, ia := range addrs {
		if !isTunnelIface(ia.Name) {
			continue
		}
		ip := ia.Addr
		if i := strings.IndexByte(ip, '/'); i > 0 {
			ip = ip[:i]
		}
		for _, prefix := range consts.TunnelSubnetPrefixes {
			if strings.HasPrefix(ip, prefix) {
				logging.D(1, "Tunnel interface %q active with address %q", ia.Name, ip)
				return true
			}
		}
	}
	return false
}

func isTunnelIface(name string) bool {
	for _, p := range []string{"utun", "tun", "tap", "wg", "ppp"} {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// proxyEngineListening reports whether a known proxy engine process is
// running with at least one socket in LISTEN state.
func (d *Detector) proxyEngineListening(ctx context.Context) bool {
	pid, ok := d.engineProcess(ctx)
	if !ok {
		return false
	}
	_, ok = d.engineListenPort(ctx, pid)
	return ok
}

// engineProcess finds the first running proxy engine process.
func (d *Detector) engineProcess(ctx context.Context) (int, bool) {
	for _, name := range d.EngineProcs {
		res, err := d.runCmd(ctx, "pgrep", []string{"-x", name}, consts.VersionCheckTimeout)
		if err != nil || !res.Success() {
			continue
		}
		fields := strings.Fields(string(res.Stdout))
		if len(fields) == 0 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		logging.D(2, "Proxy engine %q running with pid %d", name, pid)
		return pid, true
	}
	return 0, false
}

var listenPortRe = regexp.MustCompile(`:(\d+)\s+\(LISTEN\)`)

// engineListenPort extracts a listening TCP port of the given process.
func (d *Detector) engineListenPort(ctx context.Context, pid int) (int, bool) {
	res, err := d.runCmd(ctx, "lsof",
		[]string{"-nP", "-iTCP", "-sTCP:LISTEN", "-a", "-p", strconv.Itoa(pid)},
		consts.VersionCheckTimeout)
	if err != nil || !res.Success() {
		return 0, false
	}

	m := listenPortRe.FindStringSubmatch(string(res.Stdout))
	if m == nil {
		return 0, false
	}
	port, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return port, true
}

// DetectProxy discovers a working local SOCKS proxy endpoint. The socks5h
// scheme requests remote DNS resolution through the proxy.
func (d *Detector) DetectProxy(ctx context.Context) (string, bool) {
	// 1. Known proxy engine config files.
	if port, ok := d.configInboundPort(); ok {
		return socksURL(port), true
	}

	// 2. Socket introspection of a running proxy engine.
	if pid, ok := d.engineProcess(ctx); ok {
		if port, ok := d.engineListenPort(ctx, pid); ok {
			return socksURL(port), true
		}
	}

	// 3. Conventional SOCKS ports, first responder wins.
	for _, port := range d.ProbePorts {
		if d.dialPort(port, consts.PortProbeTimeout) {
			logging.D(1, "Port probe found local SOCKS candidate on %d", port)
			return socksURL(port), true
		}
	}

	return "", false
}

func socksURL(port int) string {
	return fmt.Sprintf("socks5h://127.0.0.1:%d", port)
}

// proxyConfig is the subset of an xray/v2ray style config file we care about.
type proxyConfig struct {
	Inbounds []struct {
		Protocol string `json:"protocol"`
		Port     int    `json:"port"`
		Listen   string `json:"listen"`
	} `json:"inbounds"`
}

// configInboundPort parses known config file locations for a socks inbound.
func (d *Detector) configInboundPort() (int, bool) {
	for _, path := range d.ConfigPaths {
		data, err := d.readFile(path)
		if err != nil {
			continue
		}

		var cfg proxyConfig
		if err := json.Unmarshal(data, &cfg); err != nil {
			logging.D(2, "Skipping malformed proxy config %q: %v", path, err)
			continue
		}

		for _, in := range cfg.Inbounds {
			if strings.EqualFold(in.Protocol, "socks") && in.Port > 0 {
				logging.D(1, "Found socks inbound on port %d in %q", in.Port, path)
				return in.Port, true
			}
		}
	}
	return 0, false
}
