package jonah

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// ──────────────────────────────────────────────
// Lua content loading — pools as editable data files
// ──────────────────────────────────────────────

// LoadPoolsFromLua executes a Lua content file and merges its pools into p.
// Site authors extend Jonah without recompiling the engine.
//
// Expected shape:
//
//	pools = {
//	    lore = {
//	        low  = { "line one", "line two" },
//	        high = { "line three" },
//	        any  = { "line four" },
//	    },
//	}
func LoadPoolsFromLua(p *ResponsePools, path string) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("lua pool file %s: %w", path, err)
	}
	return mergePoolsTable(p, L.GetGlobal("pools"))
}

// LoadPoolsFromLuaString is the string form, used by tests and embedded content.
func LoadPoolsFromLuaString(p *ResponsePools, script string) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(script); err != nil {
		return fmt.Errorf("lua pool script: %w", err)
	}
	return mergePoolsTable(p, L.GetGlobal("pools"))
}

func mergePoolsTable(p *ResponsePools, v lua.LValue) error {
	root, ok := v.(*lua.LTable)
	if !ok {
		return fmt.Errorf("lua pools: global 'pools' is %s, want table", v.Type())
	}

	var badEntry error
	root.ForEach(func(categoryKey, levelsVal lua.LValue) {
		category, ok := categoryKey.(lua.LString)
		if !ok {
			badEntry = fmt.Errorf("lua pools: non-string category key %q", categoryKey.String())
			return
		}
		levels, ok := levelsVal.(*lua.LTable)
		if !ok {
			badEntry = fmt.Errorf("lua pools: category %q is %s, want table", category, levelsVal.Type())
			return
		}
		levels.ForEach(func(levelKey, linesVal lua.LValue) {
			level, err := parseTrustLevel(levelKey.String())
			if err != nil {
				badEntry = err
				return
			}
			lines, ok := linesVal.(*lua.LTable)
			if !ok {
				badEntry = fmt.Errorf("lua pools: %s.%s is %s, want array", category, levelKey.String(), linesVal.Type())
				return
			}
			lines.ForEach(func(_, lineVal lua.LValue) {
				if line := lineVal.String(); line != "" {
					p.Add(string(category), level, line)
				}
			})
		})
	})
	return badEntry
}

func parseTrustLevel(s string) (TrustLevel, error) {
	switch TrustLevel(s) {
	case TrustLow, TrustMedium, TrustHigh, TrustAny:
		return TrustLevel(s), nil
	default:
		return TrustAny, fmt.Errorf("lua pools: unknown trust level %q", s)
	}
}
