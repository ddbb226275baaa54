package main

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/api"
	"github.com/lordralex/downtimepoll/api/env"
	"github.com/lordralex/downtimepoll/api/logger"
	"github.com/lordralex/downtimepoll/modules"
	"strings"
)

var commandPrefix string

func init() {
	api.RegisterCommand("modules", RunModuleCommand)
}

func EnableCommands(session *discordgo.Session) {
	commandPrefix = env.GetOr("prefix", "!?")

	api.RegisterIntentNeed(discordgo.IntentsGuildMessages, discordgo.IntentsMessageContent)

	logger.Out().Printf("Adding commands")
	session.AddHandler(onMessageCommand)
}

func onMessageCommand(ds *discordgo.Session, mc *discordgo.MessageCreate) {
	if mc.Author == nil || mc.Author.ID == ds.State.User.ID {
		return
	}

	cmd, args, ok := parseCommand(mc.Message.Content, commandPrefix)
	if !ok {
		return
	}

	logger.Debug().Printf("Command received: %s", cmd)

	commandExecutor := api.GetCommand(cmd)

	if commandExecutor != nil {
		commandExecutor(ds, mc, cmd, args)
	}
}

func parseCommand(content, prefix string) (cmd string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}

	parts := strings.Fields(strings.TrimPrefix(content, prefix))
	if len(parts) == 0 {
		return "", nil, false
	}
	return parts[0], parts[1:], true
}

func RunModuleCommand(session *discordgo.Session, mc *discordgo.MessageCreate, cmd string, args []string) {
	_, _ = session.ChannelMessageSend(mc.ChannelID, "Registered: "+strings.Join(modules.GetLoadedNames(), ", "))
}
