// Package config loads jvman settings from a sandboxed Lua file.
//
// The file lives at $JVMAN_HOME/config.lua (default ~/.jvman/config.lua) and
// must assign a global table named "jvman":
//
//	jvman = {
//	  download_dir = "~/Downloads",
//	  install_dir  = "~/.jvman/jdks",
//	  chunk_size   = 1024,
//	  in_memory    = false,
//	  log_level    = "info",
//	  catalog = {
//	    feature_version = 21,
//	    image_type      = platform.when(platform.is_musl, "jre") or "jdk",
//	  },
//	}
//
// Fields that are left out keep their defaults, and a missing file means all
// defaults. The read-only platform table from the platform package is
// available to the script.
//
// # Sandbox
//
// Scripts cannot reach the filesystem, the process environment or other
// code: os, io, require, dofile, loadfile, load, loadstring, debug,
// getmetatable, setmetatable, rawget, rawset and collectgarbage are
// removed. string, table and math remain. Scripts larger than MaxConfigSize
// are rejected and evaluation is bounded by ParseTimeout.
//
// # Errors
//
// Lua errors and validation failures are returned as *ParseError. Use
// FormatError to render one for the terminal.
package config
