// Package utils exposes reusable helpers consumed by the cmdlauncher commands.
//
// ConfigurationLoader layers embedded defaults, configuration files and
// CMDLAUNCHER_ environment variables through Viper. LoggerFactory builds the
// zap loggers shared by every subcommand, and CommandContextAccessor carries
// resolved paths through cobra command contexts.
package utils
