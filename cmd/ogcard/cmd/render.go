package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/xob0t/ogcard/internal/infra"
	"github.com/xob0t/ogcard/pkg/card"
)

var renderFlags struct {
	output string
	req    card.Request
	theme  string
}

// RenderCmd writes a single card to a file
var RenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a card to an .svg or .png file",
	Example: `  ogcard render -o card.png --title "Hello World" --theme dracula
  ogcard render -o card.svg --author jane --url example.com`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := RenderCmd.Flags()
	f.StringVarP(&renderFlags.output, "output", "o", "", "Output file path (.svg or .png)")
	f.StringVar(&renderFlags.req.Title, "title", "", "Card title")
	f.StringVar(&renderFlags.req.Author, "author", "", "Author name")
	f.StringVar(&renderFlags.req.URL, "url", "", "Website URL shown on the card")
	f.StringVar(&renderFlags.req.Photo, "photo", "", "Avatar URL or data URI")
	f.StringVar(&renderFlags.theme, "theme", card.ThemeDefault.String(), "Colour theme (see 'ogcard themes')")
	_ = RenderCmd.MarkFlagRequired("output")
}

func runRender(cmd *cobra.Command, args []string) error {
	theme, err := card.ParseTheme(renderFlags.theme)
	if err != nil {
		return err
	}
	req := renderFlags.req
	req.Theme = theme
	req = req.WithDefaults()

	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newEngine(cfg, logger).WriteFile(ctx, renderFlags.output, req); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", renderFlags.output)
	return nil
}
