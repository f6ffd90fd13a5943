package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mchmarny/navmenu/pkg/config"
	"github.com/mchmarny/navmenu/pkg/request"
	"github.com/mchmarny/navmenu/pkg/site"
)

var (
	renderConfig string
	renderMenus  []string
	renderPath   string
	renderTag    string
	renderJSON   bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print menus as activated for a request path",
	Long: `Render builds the configured menus for --path and prints them as HTML,
or as JSON trees with --json. Links resolve against base_url.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(renderConfig)
		if err != nil {
			return err
		}
		gen, err := cfg.Generator()
		if err != nil {
			return err
		}
		req := request.New(cfg.BaseURL, renderPath)

		defs := cfg.Menus
		if len(renderMenus) > 0 {
			defs = make([]config.MenuConfig, 0, len(renderMenus))
			for _, name := range renderMenus {
				def, ok := cfg.Menu(name)
				if !ok {
					return fmt.Errorf("menu %q is not defined in %s", name, renderConfig)
				}
				defs = append(defs, def)
			}
		}

		out := cmd.OutOrStdout()
		for _, def := range defs {
			m, err := def.Build(gen, req)
			if err != nil {
				return err
			}

			if renderJSON {
				items, err := m.Tree()
				if err != nil {
					return fmt.Errorf("menu %s: %w", def.Name, err)
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(site.TreeResponse{Name: def.Name, Path: req.Path(), Items: items}); err != nil {
					return fmt.Errorf("encoding menu %s: %w", def.Name, err)
				}
				continue
			}

			if renderTag != "" {
				def.Tag = renderTag
			}
			html, err := def.Render(m)
			if err != nil {
				return fmt.Errorf("menu %s: %w", def.Name, err)
			}
			fmt.Fprintln(out, html)
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderConfig, "config", "c", defaultConfig, "Path to the menu config file")
	renderCmd.Flags().StringSliceVarP(&renderMenus, "menu", "m", nil, "Menus to render (default all)")
	renderCmd.Flags().StringVarP(&renderPath, "path", "p", "/", "Request path to activate items for")
	renderCmd.Flags().StringVar(&renderTag, "tag", "", "Override the wrapper tag (ul, ol, div)")
	renderCmd.Flags().BoolVar(&renderJSON, "json", false, "Print JSON trees instead of HTML")
	rootCmd.AddCommand(renderCmd)
}
