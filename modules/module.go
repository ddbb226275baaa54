package modules

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/api"
	"github.com/lordralex/downtimepoll/api/logger"
	"sort"
)

var availableModules = make(map[string]api.Module, 0)
var loadedModules = make(map[string]api.Module, 0)

func Load(ds *discordgo.Session, modules []string) {
	if len(modules) == 1 && modules[0] == "all" {
		for k, v := range availableModules {
			loadedModules[k] = v
		}
	} else {
		for _, v := range modules {
			logger.Out().Printf("Loading %s\n", v)
			mod := availableModules[v]
			if mod != nil {
				loadedModules[v] = mod
			} else {
				logger.Err().Printf("Module %s does not exist\n", v)
			}
		}
	}

	for k, v := range loadedModules {
		v.Load(ds)
		logger.Out().Printf("Loaded %s\n", k)
	}
}

// Shutdown stops every loaded module that has background work to end.
func Shutdown() {
	for k, v := range loadedModules {
		if s, ok := v.(interface{ Stop() }); ok {
			s.Stop()
			logger.Out().Printf("Stopped %s\n", k)
		}
	}
}

func Add(module api.Module) {
	availableModules[module.Name()] = module
}

func GetLoaded() map[string]api.Module {
	return loadedModules
}

// GetLoadedNames lists the loaded modules, sorted.
func GetLoadedNames() []string {
	names := make([]string, 0, len(loadedModules))
	for k := range loadedModules {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
