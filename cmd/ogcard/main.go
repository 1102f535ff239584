// ogcard — Open Graph card images.
//
// Usage:
//
//	ogcard serve
//	ogcard render -o card.png --title "Hello World" [--theme dracula]
//	ogcard themes
//	ogcard version
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/xob0t/ogcard/cmd/ogcard/cmd"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "ogcard",
		Short: "Generate Open Graph images for web pages",
		Long: `ogcard renders 1200x630 social preview cards from a title, author,
site URL, avatar photo and colour theme, as SVG or PNG.`,
		SilenceUsage: true,
	}

	cmd.SetVersion(Version)

	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.RenderCmd)
	rootCmd.AddCommand(cmd.ThemesCmd)
	rootCmd.AddCommand(cmd.VersionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
