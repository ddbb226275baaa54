package api

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/api/logger"
	"sort"
	"strings"
	"sync"
)

var registeredCommands = make(map[string]CommandFunc)
var commandLocker sync.RWMutex

func RegisterCommand(cmd string, commandFunc CommandFunc) {
	commandLocker.Lock()
	defer commandLocker.Unlock()
	registeredCommands[strings.ToLower(cmd)] = commandFunc
}

func GetCommand(cmd string) CommandFunc {
	commandLocker.RLock()
	defer commandLocker.RUnlock()
	executor := registeredCommands[strings.ToLower(cmd)]
	if executor == nil {
		return registeredCommands[""]
	}
	return executor
}

// GetCommands lists the registered prefix commands, sorted.
func GetCommands() []string {
	commandLocker.RLock()
	defer commandLocker.RUnlock()
	names := make([]string, 0, len(registeredCommands))
	for k := range registeredCommands {
		if k != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

type CommandFunc func(session *discordgo.Session, message *discordgo.MessageCreate, cmd string, args []string)

// SlashCommand pairs an application command with the function that handles it.
type SlashCommand struct {
	Command *discordgo.ApplicationCommand
	Run     func(ds *discordgo.Session, i *discordgo.InteractionCreate)
}

// RegisterSlashCommands creates the commands once the session is ready, for
// every guild listed or globally when guilds is empty.
func RegisterSlashCommands(ds *discordgo.Session, appId string, guilds []string, commands []*SlashCommand) {
	ds.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		if appId == "" {
			appId = r.User.ID
		}
		targets := guilds
		if len(targets) == 0 {
			targets = []string{""}
		}
		for _, guild := range targets {
			for _, v := range commands {
				registerSlashCommand(s, appId, guild, v.Command)
			}
		}
	})

	ds.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		name := i.ApplicationCommandData().Name
		for _, v := range commands {
			if v.Command.Name == name {
				v.Run(s, i)
				return
			}
		}
	})
}

func registerSlashCommand(s *discordgo.Session, appId, guild string, cmd *discordgo.ApplicationCommand) {
	if guild == "" {
		logger.Out().Printf("Registering %s globally\n", cmd.Name)
	} else {
		logger.Out().Printf("Registering %s for guild %s\n", cmd.Name, guild)
	}
	_, err := s.ApplicationCommandCreate(appId, guild, cmd)
	if err != nil {
		logger.Err().Printf("Cannot create slash command %q: %v", cmd.Name, err)
	}
}
