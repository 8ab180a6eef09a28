package common

import (
	"fmt"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner to stderr. Shown by the rate
// update command, the closest thing a one-shot CLI has to a service start.
func PrintBanner(config *Config, logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	width := 56
	hr := lineColor + strings.Repeat("═", width) + banner.ColorReset

	art := []string{
		` __     __    _       _        _   _       _`,
		` \ \   / /_ _| |_   _| |_ __ _| | | |_   _| |__`,
		`  \ \ / / _' | | | | | __/ _' | |_| | | | | '_ \`,
		`   \ V / (_| | | |_| | || (_| |  _  | |_| | |_) |`,
		`    \_/ \__,_|_|\__,_|\__\__,_|_| |_|\__,_|_.__/`,
	}

	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(os.Stderr, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s  Multi-Currency Ledger & Rate Tracker%s\n", textColor, banner.ColorReset)
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	kvPad := 14
	kvLines := [][2]string{
		{"Version", GetFullVersion()},
		{"Environment", config.Environment},
		{"Data path", config.DataPath},
		{"Base", config.BaseCurrency},
		{"Cache TTL", config.Cache.TTL().String()},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(os.Stderr, "%s  %-*s %s%s\n", textColor, kvPad, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(os.Stderr, "\n%s\n\n", hr)

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("data_path", config.DataPath).
		Str("base_currency", config.BaseCurrency).
		Msg("Application started")
}
