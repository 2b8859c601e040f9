package cliconfig

// MergeConfig merges source config into target, updating sources tracking.
// Only non-zero values from source are applied, unless SetFields marks a
// key as explicitly set.
func MergeConfig(target, source *CLIConfig, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}

	if source.ServerURL != "" || isSet(source, KeyServerURL) {
		target.ServerURL = source.ServerURL
		target.Sources[KeyServerURL] = sourceType
	}
	if source.ServerVersion != "" || isSet(source, KeyServerVersion) {
		target.ServerVersion = source.ServerVersion
		target.Sources[KeyServerVersion] = sourceType
	}
	if source.Timeout != 0 {
		target.Timeout = source.Timeout
		target.Sources[KeyTimeout] = sourceType
	}
	if len(source.RuleFiles) > 0 || isSet(source, KeyRuleFiles) {
		target.RuleFiles = append([]string(nil), source.RuleFiles...)
		target.Sources[KeyRuleFiles] = sourceType
	}
	if source.LogLevel != "" {
		target.LogLevel = source.LogLevel
		target.Sources[KeyLogLevel] = sourceType
	}
	if source.LogFormat != "" {
		target.LogFormat = source.LogFormat
		target.Sources[KeyLogFormat] = sourceType
	}
	// For booleans, checking `if source.JSON` cannot detect an explicit
	// false. Without SetFields only true is merged.
	if source.JSON || isSet(source, KeyJSON) {
		target.JSON = source.JSON
		target.Sources[KeyJSON] = sourceType
	}
}

func isSet(cfg *CLIConfig, key string) bool {
	return cfg.SetFields != nil && cfg.SetFields[key]
}
