package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/personai/briefmock/internal/checks"
)

type Server struct {
	Addr           string `yaml:"addr"`
	ReadTimeoutMS  int    `yaml:"read_timeout_ms"`
	WriteTimeoutMS int    `yaml:"write_timeout_ms"`
	IdleTimeoutMS  int    `yaml:"idle_timeout_ms"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
}

type Observability struct {
	LogLevel       string `yaml:"log_level"`       // "debug","info","warn","error"
	PrometheusPath string `yaml:"prometheus_path"` // e.g. "/metrics"
}

type Service struct {
	Name         string   `yaml:"name"`
	Version      string   `yaml:"version"`
	Dependencies []string `yaml:"dependencies"`
}

// Identity lists the marker tokens the mock recognizes. Any other bearer
// token is treated as a valid caller.
type Identity struct {
	ExpiredTokens   []string `yaml:"expired_tokens"`
	ThrottledTokens []string `yaml:"throttled_tokens"`
}

// OperationPolicy is a fixed-window budget for one named operation.
type OperationPolicy struct {
	Operation string `yaml:"operation"`
	Limit     int    `yaml:"limit"`
	WindowMS  int    `yaml:"window_ms"`
}

func (p OperationPolicy) Window() time.Duration {
	return time.Duration(p.WindowMS) * time.Millisecond
}

// SimulatedPolicy is the budget applied to throttled-marker tokens on
// operations without a configured policy.
type SimulatedPolicy struct {
	Limit    int `yaml:"limit"`
	WindowMS int `yaml:"window_ms"`
}

func (p SimulatedPolicy) Window() time.Duration {
	return time.Duration(p.WindowMS) * time.Millisecond
}

type Limits struct {
	Simulated  SimulatedPolicy   `yaml:"simulated"`
	Operations []OperationPolicy `yaml:"operations"`
}

type Dispatch struct {
	MaxConcurrent  int    `yaml:"max_concurrent"`
	CheckTimeoutMS int    `yaml:"check_timeout_ms"`
	ReportDir      string `yaml:"report_dir"`
}

func (d Dispatch) CheckTimeout() time.Duration {
	return time.Duration(d.CheckTimeoutMS) * time.Millisecond
}

// CheckSpec declares one health check the dispatcher can run.
type CheckSpec struct {
	Name         string `yaml:"name"`
	Tier         string `yaml:"tier"`
	URL          string `yaml:"url"`
	Method       string `yaml:"method"`
	Token        string `yaml:"token"`
	ExpectStatus int    `yaml:"expect_status"`
}

type Root struct {
	Server        Server        `yaml:"server"`
	Observability Observability `yaml:"observability"`
	Service       Service       `yaml:"service"`
	Identity      Identity      `yaml:"identity"`
	Limits        Limits        `yaml:"limits"`
	Dispatch      Dispatch      `yaml:"dispatch"`
	Checks        []CheckSpec   `yaml:"checks"`
}

func (s Server) ReadTimeout() time.Duration {
	if s.ReadTimeoutMS == 0 {
		return 5 * time.Second
	}
	return time.Duration(s.ReadTimeoutMS) * time.Millisecond
}

func (s Server) WriteTimeout() time.Duration {
	if s.WriteTimeoutMS == 0 {
		return 10 * time.Second
	}
	return time.Duration(s.WriteTimeoutMS) * time.Millisecond
}

func (s Server) IdleTimeout() time.Duration {
	if s.IdleTimeoutMS == 0 {
		return 60 * time.Second
	}
	return time.Duration(s.IdleTimeoutMS) * time.Millisecond
}

func (s Server) MaxBody() int64 {
	if s.MaxBodyBytes == 0 {
		return 1 << 20
	}
	return s.MaxBodyBytes
}

func Load(path string) (*Root, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Root
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8085"
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	if cfg.Observability.PrometheusPath == "" {
		cfg.Observability.PrometheusPath = "/metrics"
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = "briefmock"
	}
	if cfg.Service.Version == "" {
		cfg.Service.Version = "1.1.0"
	}
	if len(cfg.Service.Dependencies) == 0 {
		cfg.Service.Dependencies = []string{"database", "slack_api", "gmail_api"}
	}
	if cfg.Limits.Simulated.Limit == 0 && cfg.Limits.Simulated.WindowMS == 0 {
		cfg.Limits.Simulated = SimulatedPolicy{Limit: 1, WindowMS: 1000}
	}
	if cfg.Dispatch.MaxConcurrent <= 0 {
		cfg.Dispatch.MaxConcurrent = 20
	}
	if cfg.Dispatch.CheckTimeoutMS <= 0 {
		cfg.Dispatch.CheckTimeoutMS = 30000
	}
	for i := range cfg.Checks {
		if cfg.Checks[i].Method == "" {
			cfg.Checks[i].Method = "GET"
		}
		if cfg.Checks[i].ExpectStatus == 0 {
			cfg.Checks[i].ExpectStatus = 200
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configs that would silently misbehave at runtime. A
// declared budget must be positive on both axes; omitting a policy is how
// an operation stays unlimited.
func (cfg *Root) validate() error {
	if cfg.Limits.Simulated.Limit <= 0 || cfg.Limits.Simulated.WindowMS <= 0 {
		return fmt.Errorf("limits.simulated: limit and window_ms must be positive (got %d, %d)",
			cfg.Limits.Simulated.Limit, cfg.Limits.Simulated.WindowMS)
	}
	for i, op := range cfg.Limits.Operations {
		if op.Operation == "" {
			return fmt.Errorf("limits.operations[%d]: operation name is required", i)
		}
		if op.Limit <= 0 || op.WindowMS <= 0 {
			return fmt.Errorf("limits.operations[%d] (%s): limit and window_ms must be positive (got %d, %d)",
				i, op.Operation, op.Limit, op.WindowMS)
		}
	}
	for i, c := range cfg.Checks {
		if c.Name == "" {
			return fmt.Errorf("checks[%d]: name is required", i)
		}
		if _, err := checks.ParseTier(c.Tier); err != nil {
			return fmt.Errorf("checks[%d] (%s): %w", i, c.Name, err)
		}
		if c.URL == "" {
			return fmt.Errorf("checks[%d] (%s): url is required", i, c.Name)
		}
	}
	return nil
}
