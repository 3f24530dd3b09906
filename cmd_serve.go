package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection and profile HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show the effective settings",
	Args:  cobra.NoArgs,
	RunE:  runSettings,
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default settings file",
	Args:  cobra.NoArgs,
	RunE:  runSettingsInit,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default settings server.addr)")
	settingsCmd.AddCommand(settingsInitCmd)
	rootCmd.AddCommand(serveCmd, settingsCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if flagAddr != "" {
		addr = flagAddr
	}
	store, err := openProfiles(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewWebServer(store, addr, loadTranslator(cfg)).Start(ctx)
}

func runSettings(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}
	path := flagSettings
	if path == "" {
		path = SettingsPath()
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "# %s\n", path)
	return toml.NewEncoder(w).Encode(cfg)
}

func runSettingsInit(cmd *cobra.Command, _ []string) error {
	path := flagSettings
	if path == "" {
		path = SettingsPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := SaveSettings(DefaultSettings(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}
