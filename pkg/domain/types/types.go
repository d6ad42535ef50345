package types

// AppName is the command name used in help output and logs
const AppName = "relpush"

// Version is overwritten at build time via -ldflags
var Version = "dev"
