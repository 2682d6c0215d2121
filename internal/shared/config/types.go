package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type AuthConfig struct {
	Password PasswordConfig `mapstructure:"password"`
	JWT      JWTConfig      `mapstructure:"jwt"`
}

// SessionConfig holds the idle-detection timing constants. The defaults
// (15 minute idle wait, 60 second warning, 60 second sweep) must stay in
// lockstep with the client monitor so both sides agree on when the
// warning phase begins.
type SessionConfig struct {
	IdleWaitMinutes        int `mapstructure:"idle_wait_minutes"`
	WarningDurationSeconds int `mapstructure:"warning_duration_seconds"`
	SweepIntervalSeconds   int `mapstructure:"sweep_interval_seconds"`
}

func (s *SessionConfig) IdleWait() time.Duration {
	return time.Duration(s.IdleWaitMinutes) * time.Minute
}

func (s *SessionConfig) WarningDuration() time.Duration {
	return time.Duration(s.WarningDurationSeconds) * time.Second
}

func (s *SessionConfig) SweepInterval() time.Duration {
	return time.Duration(s.SweepIntervalSeconds) * time.Second
}

// IdleTimeoutTotal is the full idle budget before a session is evicted:
// idle wait plus the warning countdown.
func (s *SessionConfig) IdleTimeoutTotal() time.Duration {
	return s.IdleWait() + s.WarningDuration()
}
