package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"gutenbridge/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Read or change editor settings",
}

var settingsGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting, or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(store *settings.Store) error {
			return printSettings(cmd.OutOrStdout(), store, args)
		})
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <true|false>",
	Short: "Persist a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var value bool
		err := withStore(func(store *settings.Store) error {
			var err error
			value, err = setSetting(store, args[0], args[1])
			return err
		})
		if err != nil {
			return err
		}
		return verifyPersisted(cfg.SettingsBackend, cfg.SettingsPath, args[0], value)
	},
}

func init() {
	settingsCmd.AddCommand(settingsGetCmd, settingsSetCmd)
}

func withStore(fn func(*settings.Store) error) error {
	backend, closeBackend, err := settings.OpenBackend(cfg.SettingsBackend, cfg.SettingsPath, logger)
	if err != nil {
		return err
	}
	defer closeBackend()
	return fn(settings.NewStore(backend, cfg.FeatureFlags()))
}

func printSettings(w io.Writer, store *settings.Store, args []string) error {
	keys := settings.Keys()
	if len(args) == 1 {
		if !settings.Known(args[0]) {
			return fmt.Errorf("%w: %s", settings.ErrUnknownKey, args[0])
		}
		keys = args[:1]
	}
	for _, k := range keys {
		fmt.Fprintf(w, "%s=%t\n", k, store.Get(k))
	}
	return nil
}

func setSetting(store *settings.Store, key, raw string) (bool, error) {
	if !settings.Known(key) {
		return false, fmt.Errorf("%w: %s", settings.ErrUnknownKey, key)
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	store.Set(key, value)
	return value, nil
}

// verifyPersisted reopens the backend and checks key reads back as value.
// Backends log write failures instead of returning them.
func verifyPersisted(kind, path, key string, value bool) error {
	if kind == settings.BackendMemory {
		return nil
	}
	backend, closeBackend, err := settings.OpenBackend(kind, path, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	if got, ok := backend.Bool(key); !ok || got != value {
		return fmt.Errorf("%s was not persisted to %s", key, path)
	}
	return nil
}
