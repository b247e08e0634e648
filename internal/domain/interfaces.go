package domain

// Scorer is the capability interface every domain scoring agent implements.
// Implementations are pure over the immutable profile: no I/O, no shared
// mutable state, safe for concurrent invocation.
type Scorer interface {
	// Name returns the agent identity stamped on synthesized output.
	Name() AgentType

	// Analyze scores the profile for this agent's domain. Errors are
	// contained at the orchestrator boundary; a failing agent is dropped
	// from synthesis rather than failing the request.
	Analyze(profile *HealthProfile) (*AgentReport, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetServerConfig() *ServerConfig
	GetDatabaseConfig() *DatabaseConfig
	Reload() error
	Validate() error
}
