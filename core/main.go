package main

import (
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/api"
	"github.com/lordralex/downtimepoll/api/database"
	"github.com/lordralex/downtimepoll/api/env"
	"github.com/lordralex/downtimepoll/api/logger"
	"github.com/lordralex/downtimepoll/modules"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

var Session *discordgo.Session

func main() {
	names := os.Args[1:]
	if len(names) == 0 {
		names = env.GetStringArray("modules", ",")
	}

	token := env.Get("discord_token")

	if token == "" {
		logger.Err().Print("DISCORD_TOKEN must be set in the environment to run this process")
		return
	}

	defer func() {
		err := logger.Close()
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Error closing logger: %s", err.Error())
		}
	}()

	defer database.Close()

	Session, _ = discordgo.New("")
	defer Session.Close()
	// runs before the session and database close
	defer modules.Shutdown()

	if len(names) > 0 {
		modules.Load(Session, names)
	} else {
		logger.Err().Print("No modules requested, pass them as arguments or in MODULES")
	}

	OpenConnection(token)

	// Wait for a CTRL-C
	logger.Out().Println(`Now running. Press CTRL-C to exit.`)
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	logger.Out().Println("Shutting down")
}

func OpenConnection(token string) {
	if !strings.HasPrefix(token, "Bot ") {
		token = "Bot " + token
	}
	Session.Token = token
	Session.Identify.Intents = api.GetIntent()

	EnableCommands(Session)

	err := Session.Open()
	if err != nil {
		logger.Err().Print(err.Error())
		os.Exit(1)
	}
}
