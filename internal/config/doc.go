// Package config provides settings and state paths for fruitstand.
//
// # Settings File
//
// Settings are read from $XDG_CONFIG_HOME/fruitstand/config.toml unless a
// path is given with --config. Files ending in .yaml or .yml are parsed as
// YAML, everything else as TOML:
//
//	base_url     = "http://127.0.0.1:5000/display/render?"
//	params_url   = "http://127.0.0.1:8080/demo/params"
//	state_dir    = "/var/lib/fruitstand"
//	debounce     = "100ms"
//	load_timeout = "30s"
//	metrics      = ["internal_temp", "external_humidity"]
//
//	[browser]
//	exec_path = "/usr/bin/chromium"
//	args      = "--disable-gpu --hide-scrollbars"
//	timeout   = "60s"
//
//	[server]
//	listen = "127.0.0.1:8080"
//
// Keys absent from the file keep their Defaults() value. A missing default
// file is not an error.
//
// # State Paths
//
// Paths derives every file fruitstand writes from the state directory:
//
//	localstorage.json   persisted demo configuration (key fs_demo_data)
//	renders/<key>.events.jsonl   render history per display key
//	preview.png         last headless preview
//	fruitstand.log      logs written while the demo panel is open
package config
