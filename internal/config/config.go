package config

import (
	"errors"
	"time"
)

// Config holds server configuration values.
type Config struct {
	TCPAddr             string        `mapstructure:"tcp_addr" yaml:"tcp_addr"`
	HTTPAddr            string        `mapstructure:"http_addr" yaml:"http_addr"`
	MaxRooms            int           `mapstructure:"max_rooms" yaml:"max_rooms"`
	RoomCapacity        int           `mapstructure:"room_capacity" yaml:"room_capacity"`
	MaxLineBytes        int           `mapstructure:"max_line_bytes" yaml:"max_line_bytes"`
	WSConnectsPerMinute int           `mapstructure:"ws_connects_per_minute" yaml:"ws_connects_per_minute"`
	WriteTimeout        time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ReadHeaderTimeout   time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout     time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel            string        `mapstructure:"log_level" yaml:"log_level"`
	AuditDBPath         string        `mapstructure:"audit_db_path" yaml:"audit_db_path"`
	AdminJWTSecret      string        `mapstructure:"admin_jwt_secret" yaml:"admin_jwt_secret"`
	AdminJWTIssuer      string        `mapstructure:"admin_jwt_issuer" yaml:"admin_jwt_issuer"`
	AdminJWTAudience    string        `mapstructure:"admin_jwt_audience" yaml:"admin_jwt_audience"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		TCPAddr:           ":9000",
		HTTPAddr:          ":8080",
		MaxRooms:          10,
		RoomCapacity:      40,
		MaxLineBytes:      1023,
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		AdminJWTIssuer:    "wirechat-relay",
		AdminJWTAudience:  "wirechat-admin",
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.TCPAddr != "" {
		c.TCPAddr = other.TCPAddr
	}
	if other.HTTPAddr != "" {
		c.HTTPAddr = other.HTTPAddr
	}
	if other.MaxRooms != 0 {
		c.MaxRooms = other.MaxRooms
	}
	if other.RoomCapacity != 0 {
		c.RoomCapacity = other.RoomCapacity
	}
	if other.MaxLineBytes != 0 {
		c.MaxLineBytes = other.MaxLineBytes
	}
	if other.WSConnectsPerMinute != 0 {
		c.WSConnectsPerMinute = other.WSConnectsPerMinute
	}
	if other.WriteTimeout != 0 {
		c.WriteTimeout = other.WriteTimeout
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.AuditDBPath != "" {
		c.AuditDBPath = other.AuditDBPath
	}
	if other.AdminJWTSecret != "" {
		c.AdminJWTSecret = other.AdminJWTSecret
	}
	if other.AdminJWTIssuer != "" {
		c.AdminJWTIssuer = other.AdminJWTIssuer
	}
	if other.AdminJWTAudience != "" {
		c.AdminJWTAudience = other.AdminJWTAudience
	}
}

// Validate rejects configurations the relay cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.TCPAddr == "" {
		errs = append(errs, errors.New("tcp_addr must be set"))
	}
	if c.MaxRooms <= 0 {
		errs = append(errs, errors.New("max_rooms must be positive"))
	}
	if c.RoomCapacity <= 0 {
		errs = append(errs, errors.New("room_capacity must be positive"))
	}
	if c.MaxLineBytes < 16 {
		errs = append(errs, errors.New("max_line_bytes must be at least 16"))
	}
	if c.WSConnectsPerMinute < 0 {
		errs = append(errs, errors.New("ws_connects_per_minute must not be negative"))
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, errors.New("write_timeout must not be negative"))
	}
	return errors.Join(errs...)
}
