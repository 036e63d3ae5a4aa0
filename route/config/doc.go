// Package config manages grid profiles for the route plotter.
//
// A profile names a grid size and the marker drawn in visited cells. Profiles
// live in a directory as JSON (.json) or YAML (.yaml, .yml) files; the file
// name without extension is the profile ID used by sessions and the CLI.
//
//	{
//	  "name": "standard",
//	  "description": "Standard 12x12 drone navigation grid",
//	  "rows": 12,
//	  "cols": 12,
//	  "marker": "x"
//	}
//
// Usage:
//
//	manager, err := config.NewManager("profiles")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	profile, err := manager.LoadProfile("small")
//	defaultProfile := manager.GetDefault()
//	profiles, err := manager.ListProfiles()
//
// The default profile is "standard" when that file exists, otherwise the
// first valid profile found, otherwise the built-in 12x12 profile.
package config
