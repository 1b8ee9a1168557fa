package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/localdb/localdb/lib/db"
	"github.com/localdb/localdb/lib/db/engines/memory"
	"github.com/localdb/localdb/lib/db/engines/sqlite"
	"github.com/localdb/localdb/lib/db/location"
	"github.com/localdb/localdb/lib/logger"
	"github.com/localdb/localdb/lib/store"
	"github.com/localdb/localdb/lib/store/docstore"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// InitConfig initializes configuration from env files and environment
// variables. Flags still take precedence once bound.
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("localdb")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// ApplyLogLevel sets the store logger level from the bound configuration.
func ApplyLogLevel() {
	if level, err := logger.ParseLevel(viper.GetString("log-level")); err == nil {
		logger.GetLogger("store").SetLevel(level)
	}
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// OpenStore opens a document store from the resolved configuration: the
// backend kind ("sqlite" or "memory"), the store directory and the logical
// store name.
func OpenStore() (store.DocumentStore, error) {
	name := viper.GetString("name")
	if name == "" {
		name = location.DefaultName
	}

	var resolver location.Resolver
	var open func(location.Location) (db.Backend, error)

	switch backend := viper.GetString("backend"); backend {
	case "sqlite", "":
		resolver = location.NewFileResolver(viper.GetString("dir"))
		open = sqlite.Open
	case "memory":
		resolver = location.NameResolver{}
		open = memory.Open
	default:
		return nil, fmt.Errorf("invalid backend %s (expected sqlite or memory)", backend)
	}

	loc, err := resolver.Custom(name).Get()
	if err != nil {
		return nil, err
	}
	return docstore.New(func() (db.Backend, error) { return open(loc) })
}
