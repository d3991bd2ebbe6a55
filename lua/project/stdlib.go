package project

import (
	"errors"

	"github.com/dhamidi/luadoc/lua/parser"
)

var errProjectRootUnset = errors.New("project root not detected")

// standardModules are the library tables registered for every
// supported Lua version.
var standardModules = []string{
	"string", "table", "math", "io", "os", "debug", "coroutine",
	"_G", "bit32", "utf8",
}

func isStandardModule(name string) bool {
	for _, std := range standardModules {
		if std == name {
			return true
		}
	}
	return false
}

// loadStandardLibrary registers the standard library's modules and
// global functions for the context's Lua version. The export types
// record each function's primary return type; functions whose result
// depends on their arguments stay Unknown.
func (c *Context) loadStandardLibrary() {
	c.registerStdModule("_G", globalFunctions(c.LuaVersion))

	c.registerStdModule("string", []stdExport{
		{"byte", parser.NumberType()},
		{"char", parser.StringType()},
		{"find", parser.NumberType()},
		{"format", parser.StringType()},
		{"gmatch", parser.FunctionType()},
		{"gsub", parser.StringType()},
		{"len", parser.NumberType()},
		{"lower", parser.StringType()},
		{"match", parser.StringType()},
		{"rep", parser.StringType()},
		{"reverse", parser.StringType()},
		{"sub", parser.StringType()},
		{"upper", parser.StringType()},
	})

	c.registerStdModule("table", []stdExport{
		{"concat", parser.StringType()},
		{"insert", parser.Unknown()},
		{"remove", parser.Unknown()},
		{"sort", parser.Unknown()},
	})

	c.registerStdModule("math", []stdExport{
		{"abs", parser.NumberType()},
		{"ceil", parser.NumberType()},
		{"floor", parser.NumberType()},
		{"huge", parser.NumberType()},
		{"max", parser.NumberType()},
		{"min", parser.NumberType()},
		{"pi", parser.NumberType()},
		{"random", parser.NumberType()},
		{"sqrt", parser.NumberType()},
	})

	c.registerStdModule("io", []stdExport{
		{"close", parser.Unknown()},
		{"lines", parser.FunctionType()},
		{"open", parser.TableType()},
		{"read", parser.StringType()},
		{"write", parser.Unknown()},
	})

	c.registerStdModule("os", []stdExport{
		{"clock", parser.NumberType()},
		{"date", parser.StringType()},
		{"exit", parser.Unknown()},
		{"getenv", parser.StringType()},
		{"time", parser.NumberType()},
	})

	c.registerStdModule("debug", []stdExport{
		{"getinfo", parser.TableType()},
		{"traceback", parser.StringType()},
	})

	c.registerStdModule("coroutine", []stdExport{
		{"create", parser.Unknown()},
		{"resume", parser.BooleanType()},
		{"status", parser.StringType()},
		{"wrap", parser.FunctionType()},
		{"yield", parser.Unknown()},
	})

	if c.LuaVersion == Lua52 {
		c.registerStdModule("bit32", []stdExport{
			{"arshift", parser.NumberType()},
			{"band", parser.NumberType()},
			{"bnot", parser.NumberType()},
			{"bor", parser.NumberType()},
			{"btest", parser.BooleanType()},
			{"bxor", parser.NumberType()},
			{"extract", parser.NumberType()},
			{"lrotate", parser.NumberType()},
			{"lshift", parser.NumberType()},
			{"replace", parser.NumberType()},
			{"rrotate", parser.NumberType()},
			{"rshift", parser.NumberType()},
		})
	}

	if c.LuaVersion.HasFeature("utf8") {
		c.registerStdModule("utf8", []stdExport{
			{"char", parser.StringType()},
			{"codepoint", parser.NumberType()},
			{"len", parser.NumberType()},
			{"offset", parser.NumberType()},
		})
	}
}

type stdExport struct {
	name string
	typ  parser.TypeInfo
}

func (c *Context) registerStdModule(name string, exports []stdExport) {
	module := &ModuleInfo{Exports: map[string]parser.ExportItem{}, Processed: true}
	for _, export := range exports {
		module.Exports[export.name] = parser.ExportItem{Name: export.name, Type: export.typ}
	}
	c.Modules[name] = module
}

func globalFunctions(version LuaVersion) []stdExport {
	exports := []stdExport{
		{"assert", parser.Unknown()},
		{"collectgarbage", parser.Unknown()},
		{"dofile", parser.Unknown()},
		{"error", parser.Unknown()},
		{"getmetatable", parser.TableType()},
		{"ipairs", parser.FunctionType()},
		{"load", parser.FunctionType()},
		{"loadfile", parser.FunctionType()},
		{"next", parser.Unknown()},
		{"pairs", parser.FunctionType()},
		{"pcall", parser.BooleanType()},
		{"print", parser.Unknown()},
		{"rawequal", parser.BooleanType()},
		{"rawget", parser.Unknown()},
		{"rawset", parser.Unknown()},
		{"require", parser.Unknown()},
		{"select", parser.Unknown()},
		{"setmetatable", parser.TableType()},
		{"tonumber", parser.NumberType()},
		{"tostring", parser.StringType()},
		{"type", parser.StringType()},
		{"xpcall", parser.BooleanType()},
	}
	switch version {
	case Lua51:
		exports = append(exports,
			stdExport{"getfenv", parser.TableType()},
			stdExport{"loadstring", parser.FunctionType()},
			stdExport{"module", parser.Unknown()},
			stdExport{"setfenv", parser.BooleanType()},
			stdExport{"unpack", parser.Unknown()},
		)
	case Lua52, Lua53:
		exports = append(exports, stdExport{"rawlen", parser.NumberType()})
	case Lua54:
		exports = append(exports,
			stdExport{"rawlen", parser.NumberType()},
			stdExport{"warn", parser.Unknown()},
		)
	}
	return exports
}
