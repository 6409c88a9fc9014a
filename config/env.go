package config

import (
	"os"
	"strings"
)

// Environment is the deployment the service runs in
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// ParseEnvironment maps an ENV value onto an Environment. Short forms are
// accepted; anything unknown is development.
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "test", "testing":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// CurrentEnvironment reads ENV. CI=true takes precedence.
func CurrentEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// IsAutomated reports a test run, local or in a pipeline
func (e Environment) IsAutomated() bool {
	return e == Test || e == CI
}

// Verbose reports whether development logging and gin debug output apply
func (e Environment) Verbose() bool {
	return e == Development || e == ""
}
