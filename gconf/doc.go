/*

Package gconf implements the configuration shared by the splitter command
line client and the HTTP API.

Configuration is built in layers. Defaults point to the test network. A TOML
file can override any of them, environment variables prefixed with
SPLITTER_ override the file, and command line flags are applied last by the
commands themselves.

An invalid configuration is a critical condition and the application cannot
recover from it. Always call Validate before using a loaded configuration.

*/
package gconf
