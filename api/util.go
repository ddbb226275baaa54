package api

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/api/logger"
)

// InteractionUser returns who triggered the interaction, in a guild or a DM.
func InteractionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// DisplayName prefers the guild nickname over the account name.
func DisplayName(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.Nick != "" {
		return i.Member.Nick
	}
	user := InteractionUser(i)
	if user == nil {
		return ""
	}
	return user.Username
}

// HasPermission checks the permissions Discord resolved for the member in the
// channel the interaction came from. DMs never carry guild permissions.
func HasPermission(i *discordgo.Interaction, permission int64) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return i.Member.Permissions&permission == permission
}

// GuildOrChannel identifies the community an interaction belongs to.
func GuildOrChannel(i *discordgo.Interaction) string {
	if i.GuildID != "" {
		return i.GuildID
	}
	return i.ChannelID
}

func RespondEphemeral(ds *discordgo.Session, i *discordgo.Interaction, content string) {
	err := ds.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		logger.Err().Printf("unable to respond to interaction %s: %s", i.ID, err)
	}
}

func RespondPublic(ds *discordgo.Session, i *discordgo.Interaction, data *discordgo.InteractionResponseData) {
	err := ds.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		logger.Err().Printf("unable to respond to interaction %s: %s", i.ID, err)
	}
}
