package source

import (
	"context"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	gnet "github.com/shirou/gopsutil/v3/net"
)

// Info holds static host facts shown on the overlay's info pane.
// Collected once at startup, not per tick.
type Info struct {
	Hostname      string
	Platform      string
	UptimeSecs    uint64
	PhysicalCores int
	LogicalCores  int
	TotalRAMBytes uint64
	Interfaces    []string
}

// HostInfo gathers Info best-effort; fields it cannot read stay zero.
func HostInfo(ctx context.Context) Info {
	var info Info
	if h, err := host.InfoWithContext(ctx); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform
		info.UptimeSecs = h.Uptime
	}
	if n, err := cpu.CountsWithContext(ctx, false); err == nil {
		info.PhysicalCores = n
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		info.LogicalCores = n
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		info.TotalRAMBytes = vm.Total
	}
	if ifaces, err := gnet.InterfacesWithContext(ctx); err == nil {
		for _, iface := range ifaces {
			if iface.Name == "lo" {
				continue
			}
			info.Interfaces = append(info.Interfaces, iface.Name)
		}
	}
	return info
}
