package api

import "github.com/bwmarrin/discordgo"

type Module interface {
	Load(ds *discordgo.Session)
	Name() string
}
