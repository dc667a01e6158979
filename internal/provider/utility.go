package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pders01/qlaunch/internal/config"
	"github.com/pders01/qlaunch/internal/dispatch"
	"github.com/pders01/qlaunch/internal/mode"
	"github.com/pders01/qlaunch/internal/result"
)

const (
	UtilityIP   = "ip"
	UtilityUUID = "uuid"

	SlotLocalIP  = "ip:local"
	SlotPublicIP = "ip:public"

	maxUUIDs = 20
)

// Utilities serves the utility modes: "ip" shows local and public
// addresses resolved independently, "uuid" generates identifiers.
type Utilities struct {
	client     *http.Client
	interfaces func() ([]net.Addr, error)
}

func NewUtilities(client *http.Client) *Utilities {
	if client == nil {
		client = http.DefaultClient
	}
	return &Utilities{client: client, interfaces: net.InterfaceAddrs}
}

func (u *Utilities) Enter(m mode.Mode, s config.Settings) ([]result.Item, error) {
	um, _ := m.(mode.Utility)
	switch um.ID {
	case UtilityIP:
		var items []result.Item
		for _, slot := range u.Slots(m, s) {
			items = append(items, slot.Placeholder)
		}
		return items, nil
	case UtilityUUID:
		return uuidItems(5), nil
	}
	return nil, Unavailable("unknown utility " + strconv.Quote(um.ID))
}

func (u *Utilities) Exit(mode.Mode) {}

func (u *Utilities) Route(m mode.Mode, _ config.Settings) dispatch.Route {
	um, _ := m.(mode.Utility)
	if um.ID != UtilityUUID {
		// The address rows are owned by their slots; typing does not
		// replace them.
		return dispatch.Route{}
	}
	return dispatch.Route{
		Strategy: dispatch.Sync(),
		Search: func(_ context.Context, query string) ([]result.Item, error) {
			n := 5
			if q := strings.TrimSpace(query); q != "" {
				v, err := strconv.Atoi(q)
				if err != nil || v < 1 {
					return []result.Item{result.Info("uuid:hint", "Type how many identifiers to generate", fmt.Sprintf("1 to %d", maxUUIDs))}, nil
				}
				n = min(v, maxUUIDs)
			}
			return uuidItems(n), nil
		},
	}
}

func (u *Utilities) Slots(m mode.Mode, s config.Settings) []dispatch.Slot {
	um, _ := m.(mode.Utility)
	if um.ID != UtilityIP {
		return nil
	}
	publicURL := s.PublicIPURL
	return []dispatch.Slot{
		{
			ID:          SlotLocalIP,
			Placeholder: result.Info(SlotLocalIP, "Local IP", "Resolving…"),
			Timeout:     s.NetworkTimeout,
			Resolve: func(ctx context.Context) (result.Item, error) {
				ip, err := u.localIP(ctx)
				if err != nil {
					return result.Item{}, err
				}
				return addressItem(SlotLocalIP, "Local IP", ip), nil
			},
			Failure: func(err error) result.Item {
				return result.Info(SlotLocalIP, "Local IP", "Unavailable: "+err.Error())
			},
		},
		{
			ID:          SlotPublicIP,
			Placeholder: result.Info(SlotPublicIP, "Public IP", "Resolving…"),
			Timeout:     s.NetworkTimeout,
			Resolve: func(ctx context.Context) (result.Item, error) {
				ip, err := u.publicIP(ctx, publicURL)
				if err != nil {
					return result.Item{}, err
				}
				return addressItem(SlotPublicIP, "Public IP", ip), nil
			},
			Failure: func(err error) result.Item {
				return result.Info(SlotPublicIP, "Public IP", "Unavailable: "+err.Error())
			},
		},
	}
}

func addressItem(id, title, ip string) result.Item {
	it := result.Info(id, title, ip)
	it.Value = ip
	return it
}

func (u *Utilities) localIP(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	addrs, err := u.interfaces()
	if err != nil {
		return "", fmt.Errorf("listing interfaces: %w", err)
	}
	var v6 string
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || ipnet.IP.IsLoopback() || ipnet.IP.IsLinkLocalUnicast() {
			continue
		}
		if ipnet.IP.To4() != nil {
			return ipnet.IP.String(), nil
		}
		if v6 == "" {
			v6 = ipnet.IP.String()
		}
	}
	if v6 != "" {
		return v6, nil
	}
	return "", errors.New("no network address")
}

func (u *Utilities) publicIP(ctx context.Context, endpoint string) (string, error) {
	if endpoint == "" {
		return "", errors.New("no public IP service configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 256))
	if err != nil {
		return "", err
	}
	ip := strings.TrimSpace(string(body))
	if net.ParseIP(ip) == nil {
		return "", fmt.Errorf("unexpected response %q", ip)
	}
	return ip, nil
}

func uuidItems(n int) []result.Item {
	items := make([]result.Item, 0, n+1)
	if v7, err := uuid.NewV7(); err == nil {
		s := v7.String()
		items = append(items, result.Item{ID: "uuid:v7", Kind: result.KindModeResult, Title: s, Subtitle: "UUID v7 (time ordered)", Value: s})
	}
	for i := range n {
		s := uuid.NewString()
		items = append(items, result.Item{
			ID:       "uuid:" + strconv.Itoa(i),
			Kind:     result.KindModeResult,
			Title:    s,
			Subtitle: "UUID v4",
			Value:    s,
		})
	}
	return items
}
