package config

import "time"

// Lua schema names
const (
	luaGlobalJvman      = "jvman"
	luaFieldDownloadDir = "download_dir"
	luaFieldInstallDir  = "install_dir"
	luaFieldChunkSize   = "chunk_size"
	luaFieldInMemory    = "in_memory"
	luaFieldUserAgent   = "user_agent"
	luaFieldLogLevel    = "log_level"
	luaFieldCatalog     = "catalog"
	luaFieldBaseURL     = "base_url"
	luaFieldFeature     = "feature_version"
	luaFieldReleaseType = "release_type"
	luaFieldImageType   = "image_type"
	luaFieldJVMImpl     = "jvm_impl"
	luaFieldHeapSize    = "heap_size"
	luaFieldVendor      = "vendor"
)

// Limits
const (
	// MaxConfigSize is the largest config file accepted.
	MaxConfigSize = 1 << 20
	// MaxChunkSize bounds chunk_size.
	MaxChunkSize = 64 << 20
	// ParseTimeout bounds script evaluation.
	ParseTimeout = 5 * time.Second
)

// Environment and file names
const (
	// EnvHome overrides the jvman home directory.
	EnvHome = "JVMAN_HOME"
	// ConfigFileName is the config file inside the home directory.
	ConfigFileName = "config.lua"
)
