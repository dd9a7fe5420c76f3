package server

import (
	"log/slog"
	"net"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/hashicorp/mdns"

	"github.com/weldfolio/weldsite/internal/config"
)

const mdnsService = "_weldsite._tcp"

// startMDNSAdvertiser announces the server on the local network when enabled.
// The returned func stops the responder.
func startMDNSAdvertiser(cfg config.File) func() {
	if !cfg.Server.MDNS.Enable {
		return func() {}
	}

	port := listenPortFromAddr(cfg.Server.Addr)
	if port == "" {
		return func() {}
	}
	portNum, err := strconv.Atoi(port)
	if err != nil {
		return func() {}
	}

	host, _ := os.Hostname()
	if strings.TrimSpace(host) == "" {
		host = "weldsite"
	}
	instance := strings.TrimSpace(cfg.Server.MDNS.Instance)
	if instance == "" {
		instance = "weldsite-" + host
	}

	meta := []string{
		"name=" + cfg.Site.Name,
		"api_version=1",
		"version=" + currentVersion(),
		"catalog=" + cfg.Site.CatalogPath,
	}
	ips := discoverAdvertiseIPs()
	service, err := mdns.NewMDNSService(instance, mdnsService, "", "", portNum, ips, meta)
	if err != nil {
		slog.Error("mdns advertise service setup failed", "error", err)
		return func() {}
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		slog.Error("mdns advertise start failed", "error", err)
		return func() {}
	}
	slog.Info("mdns advertising enabled", "service", mdnsService, "instance", instance, "port", port)

	return func() {
		server.Shutdown()
	}
}

func discoverAdvertiseIPs() []net.IP {
	ifAddrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return filterAdvertiseIPs(ifAddrs)
}

func filterAdvertiseIPs(addrs []net.Addr) []net.IP {
	if len(addrs) == 0 {
		return nil
	}
	seen := map[string]struct{}{}
	out := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		if addr == nil {
			continue
		}
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet == nil || ipNet.IP == nil {
			continue
		}
		ip := ipNet.IP
		if ip.IsLoopback() || ip.IsUnspecified() {
			continue
		}
		if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			continue
		}
		normalized := ip.To16()
		if normalized == nil {
			continue
		}
		key := normalized.String()
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, normalized)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		ai := out[i].To4() != nil
		aj := out[j].To4() != nil
		if ai != aj {
			return ai
		}
		return out[i].String() < out[j].String()
	})
	return out
}

func listenPortFromAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return strings.TrimPrefix(config.DefaultAddr, ":")
	}
	if strings.HasPrefix(addr, ":") {
		return strings.TrimPrefix(addr, ":")
	}
	if strings.Count(addr, ":") == 0 {
		return addr
	}
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return ""
	}
	return p
}
