package config

import (
	lua "github.com/yuin/gopher-lua"
)

// blockedGlobals are removed from every config VM. string, table, math and
// the basic functions (type, tostring, pairs, ...) stay available.
var blockedGlobals = []string{
	// process and filesystem access
	"os", "io",
	// loading external code
	"require", "dofile", "loadfile", "load", "loadstring", "module", "package",
	// escaping the read-only platform table
	"debug", "getmetatable", "setmetatable", "rawget", "rawset", "rawequal",
	"getfenv", "setfenv",
	"collectgarbage",
}

// newSandboxedVM creates a Lua state with the blocked globals removed.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{
		CallStackSize:       256,
		RegistrySize:        1024 * 8,
		IncludeGoStackTrace: false,
	})
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
	return L
}
