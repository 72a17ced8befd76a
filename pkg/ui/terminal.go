package ui

import (
	"fmt"
	"os"
	"sync/atomic"
)

// ASCII logo for the application
const ASCIILogo = `
  ████████╗██╗    ██╗███████╗███████╗████████╗███████╗███████╗████████╗ ██████╗██╗  ██╗
  ╚══██╔══╝██║    ██║██╔════╝██╔════╝╚══██╔══╝██╔════╝██╔════╝╚══██╔══╝██╔════╝██║  ██║
     ██║   ██║ █╗ ██║█████╗  █████╗     ██║   █████╗  █████╗     ██║   ██║     ███████║
     ██║   ██║███╗██║██╔══╝  ██╔══╝     ██║   ██╔══╝  ██╔══╝     ██║   ██║     ██╔══██║
     ██║   ╚███╔███╔╝███████╗███████╗   ██║   ██║     ███████╗   ██║   ╚██████╗██║  ██║
     ╚═╝    ╚══╝╚══╝ ╚══════╝╚══════╝   ╚═╝   ╚═╝     ╚══════╝   ╚═╝    ╚═════╝╚═╝  ╚═╝
`

// Color functions for terminal output
var (
	Cyan   = colorize("\033[36m%s\033[0m")
	Yellow = colorize("\033[33m%s\033[0m")
	Red    = colorize("\033[31m%s\033[0m")
	Green  = colorize("\033[32m%s\033[0m")
	Dim    = colorize("\033[2m%s\033[0m")
)

var quietMode atomic.Bool

// SetQuietMode suppresses all output except errors
func SetQuietMode(quiet bool) {
	quietMode.Store(quiet)
}

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintLogo prints the ASCII logo with color
func PrintLogo() {
	if quietMode.Load() {
		return
	}
	fmt.Fprint(os.Stderr, Cyan(ASCIILogo))
}

// PrintError prints an error message in red to stderr
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(os.Stderr, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Green(msg))
}

// PrintInfo prints a labeled info line in cyan
func PrintInfo(label string, value string) {
	if quietMode.Load() {
		return
	}
	fmt.Printf("%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string) {
	if quietMode.Load() {
		return
	}
	fmt.Println(Yellow(msg))
}
