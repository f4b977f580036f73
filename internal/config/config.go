// Package config loads gamelink's JSON configuration and the LAN game
// database.
package config

import (
	"fmt"
	"net/netip"

	"github.com/spf13/viper"
)

// DefaultFile is the configuration file read when none is given.
const DefaultFile = "config.json"

// VPN holds the relay settings for the vpn subcommand.
type VPN struct {
	Interface string   `mapstructure:"interface"`
	PlayerIPs []string `mapstructure:"player_ips"`
}

// PartyLAN points at the local PartyLAN installation.
type PartyLAN struct {
	Path string `mapstructure:"path"`
}

// Config is the fixed shape of config.json.
type Config struct {
	VPN      VPN      `mapstructure:"vpn"`
	PartyLAN PartyLAN `mapstructure:"partylan"`
}

// Load reads the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// PlayerAddrs validates and parses vpn.player_ips. An empty list is valid;
// the relay then captures without sending anything.
func (c *Config) PlayerAddrs() ([]netip.Addr, error) {
	addrs := make([]netip.Addr, 0, len(c.VPN.PlayerIPs))
	for _, ip := range c.VPN.PlayerIPs {
		addr, err := netip.ParseAddr(ip)
		if err != nil {
			return nil, fmt.Errorf("config: invalid player ip %q: %w", ip, err)
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// ValidateVPN checks the fields the vpn subcommand requires.
func (c *Config) ValidateVPN() error {
	if c.VPN.Interface == "" {
		return fmt.Errorf("config: vpn.interface is required")
	}
	_, err := c.PlayerAddrs()
	return err
}

// ValidatePartyLAN checks the fields the partylan subcommand requires.
func (c *Config) ValidatePartyLAN() error {
	if c.PartyLAN.Path == "" {
		return fmt.Errorf("config: partylan.path is required")
	}
	return nil
}
