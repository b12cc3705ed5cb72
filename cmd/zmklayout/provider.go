package main

import "github.com/CaddyGlow/zmk-layout/core/provider"

// loadProvider resolves the active ConfigurationProvider: a YAML keyboard
// profile if --profile was given, otherwise ZMK's upstream defaults.
func loadProvider() (provider.ConfigurationProvider, error) {
	if profilePath == "" {
		return provider.NewStaticConfigurationProvider(), nil
	}
	return provider.LoadFileConfigurationProvider(profilePath)
}
