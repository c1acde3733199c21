package config

const (
	defaultDataDir              = "~/.local/share/sweeper/data"
	defaultEngineInterpreter    = "python3"
	defaultEngineTimeoutSeconds = 0
	defaultSettleSeconds        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 60
	defaultNotifyRequestTimeout = 10
)

// defaultSoftExitCodes lists the engine statuses that mean "deliberate
// non-error decision, file already disposed of by the engine": 100 is the
// engine's all-rows-rejected status, 101 its partial-success status. Both
// leave nothing at the incoming path for the orchestrator to act on.
var defaultSoftExitCodes = []int{100, 101}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Engine: Engine{
			Interpreter:    defaultEngineInterpreter,
			TimeoutSeconds: defaultEngineTimeoutSeconds,
			SoftExitCodes:  append([]int(nil), defaultSoftExitCodes...),
		},
		Stability: Stability{
			SettleSeconds: defaultSettleSeconds,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			PassSummary:    true,
			Quarantine:     true,
			Errors:         true,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
