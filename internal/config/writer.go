package config

import "os"

// logWriter is stderr so stdout stays free for the console and the MCP stdio transport.
var logWriter = os.Stderr
