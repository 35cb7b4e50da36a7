package main

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/slotbridge/errors"
	"github.com/wippyai/slotbridge/scene"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))
)

// app holds state shared by subcommands once the root command has resolved
// configuration.
type app struct {
	cfg     *Config
	log     *zap.Logger
	cfgFile string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "slotbridge",
		Short: "Inspect scenes and run WASM guests against them",
		Long: titleStyle.Render("slotbridge") + subtitleStyle.Render(" - slot scene bridge for WASM guests") + `

A scene is a TOML file describing slots, their components and fields.
Guests import the "resonite" host module and see the scene through
64-bit reference handles and typed value envelopes.

` + subtitleStyle.Render("Examples:") + `
  slotbridge tree --scene world.toml
  slotbridge run --scene world.toml --wasm guest.wasm --func main --arg root
  slotbridge browse --scene world.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (TOML, YAML or JSON)")
	flags.String("scene", "", "scene description file")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console or json)")
	flags.Uint32("memory-limit-pages", 0, "cap guest memory at this many 64KiB pages (0 = wazero default)")

	root.AddCommand(newTreeCmd(a), newRunCmd(a), newBrowseCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd.Flags(), a.cfgFile)
	if err != nil {
		return err
	}
	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// loadScene reads the configured scene file.
func (a *app) loadScene() (*scene.World, error) {
	if a.cfg.Scene == "" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "no scene given; use --scene or SLOTBRIDGE_SCENE")
	}
	world, err := scene.LoadFile(a.cfg.Scene)
	if err != nil {
		return nil, err
	}
	a.log.Debug("scene loaded",
		zap.String("path", a.cfg.Scene),
		zap.Int("refs", world.Len()))
	return world, nil
}
