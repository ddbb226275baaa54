package downtimepoll

import (
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"strings"
)

var manageServer = int64(discordgo.PermissionManageServer)

var pollStartOperation = &discordgo.ApplicationCommand{
	Name:                     string(poll.OperationOpen),
	Description:              "Start the downtime guessing poll (moderators only)",
	Type:                     discordgo.ChatApplicationCommand,
	DefaultMemberPermissions: &manageServer,
}

var pollCloseOperation = &discordgo.ApplicationCommand{
	Name:                     string(poll.OperationClose),
	Description:              "Close the guessing poll and pick the winner (moderators only)",
	Type:                     discordgo.ChatApplicationCommand,
	DefaultMemberPermissions: &manageServer,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "time",
			Description: "The actual time the service came back, e.g. 18:23",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
}

var guessOperation = &discordgo.ApplicationCommand{
	Name:        string(poll.OperationSubmit),
	Description: "Submit your guess (HH:MM)",
	Type:        discordgo.ChatApplicationCommand,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        "time",
			Description: "Your guess in 24h format, e.g. 15:30",
			Type:        discordgo.ApplicationCommandOptionString,
			Required:    true,
		},
	},
}

var guessesOperation = &discordgo.ApplicationCommand{
	Name:        string(poll.OperationList),
	Description: "Show all current guesses",
	Type:        discordgo.ChatApplicationCommand,
}

// commandArgs pulls the string options of a slash command in declaration order,
// with surrounding whitespace trimmed.
func commandArgs(data discordgo.ApplicationCommandInteractionData) []string {
	args := make([]string, 0, len(data.Options))
	for _, v := range data.Options {
		if v.Type == discordgo.ApplicationCommandOptionString {
			args = append(args, strings.TrimSpace(v.StringValue()))
		}
	}
	return args
}
