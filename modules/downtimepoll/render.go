package downtimepoll

import (
	"errors"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"strings"
)

const embedColor = 0x00b0f4

const (
	msgOpened         = "The guessing poll has started! Submit your guess with `/guess`."
	msgOpenDenied     = "Only moderators can start the poll!"
	msgCloseDenied    = "Only moderators can close the poll!"
	msgNoPoll         = "There is no active poll."
	msgCloseFormat    = "Please give the time in HH:MM format."
	msgGuessFormat    = "Please give your guess in HH:MM (24h) format."
	msgAlreadyGuessed = "You already submitted a guess for this poll."
	msgGuessSaved     = "Your guess **%s** has been saved."
	msgNoGuesses      = "No guesses yet."
	msgClosedWinner   = "Poll closed!\nActual time: **%s**\nWinner: <@%s> with guess **%s**."
	msgClosedNoWinner = "Poll closed! There were no valid guesses."
	msgFailed         = "Something went wrong, please try again later."
	msgUnknown        = "Unknown command."
	listTitle         = "Current guesses"
	defaultFooter     = "Downtime guessing poll"
	prevLabel         = "⬅️ Back"
	nextLabel         = "Next ➡️"
)

// replyText turns the outcome of an operation into what the user is told.
// Everything except announcements to the whole channel is ephemeral.
func replyText(op poll.Operation, reply poll.Reply, err error) (content string, ephemeral bool) {
	if err != nil {
		switch {
		case errors.Is(err, poll.ErrUnauthorized):
			if op == poll.OperationClose {
				return msgCloseDenied, true
			}
			return msgOpenDenied, true
		case errors.Is(err, poll.ErrPollNotOpen):
			return msgNoPoll, true
		case errors.Is(err, poll.ErrInvalidFormat):
			if op == poll.OperationClose {
				return msgCloseFormat, true
			}
			return msgGuessFormat, true
		case errors.Is(err, poll.ErrAlreadySubmitted):
			return msgAlreadyGuessed, true
		case errors.Is(err, poll.ErrUnknownOperation):
			return msgUnknown, true
		}
		return msgFailed, true
	}

	switch op {
	case poll.OperationOpen:
		return msgOpened, false
	case poll.OperationSubmit:
		return fmt.Sprintf(msgGuessSaved, reply.Guess.Time), true
	case poll.OperationClose:
		if !reply.Result.HasWinner {
			return msgClosedNoWinner, false
		}
		w := reply.Result.Winner
		return fmt.Sprintf(msgClosedWinner, reply.Result.Reference, w.SubmitterID, w.Time), false
	case poll.OperationList:
		if len(reply.Entries) == 0 {
			return msgNoGuesses, false
		}
		return "", false
	}
	return msgUnknown, true
}

func listEmbed(page poll.Page, footer, iconURL string) *discordgo.MessageEmbed {
	lines := make([]string, 0, len(page.Items))
	for _, v := range page.Items {
		lines = append(lines, fmt.Sprintf("🕒 `%s` — <@%s>", v.Time, v.SubmitterID))
	}

	if footer == "" {
		footer = defaultFooter
	}

	return &discordgo.MessageEmbed{
		Title:       listTitle,
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
		Footer: &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Page %d/%d • %s", page.Index+1, page.Total, footer),
			IconURL: iconURL,
		},
	}
}

// navigationButtons renders the Back/Next row for page. With inert set both
// buttons are disabled, for single page lists and expired sessions.
func navigationButtons(session string, page poll.Page, inert bool) []discordgo.MessageComponent {
	prev := &NavigationId{Action: poll.Prev.String(), Session: session}
	next := &NavigationId{Action: poll.Next.String(), Session: session}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: prev.ToString(),
					Label:    prevLabel,
					Style:    discordgo.PrimaryButton,
					Disabled: inert || !page.HasPrev(),
				},
				discordgo.Button{
					CustomID: next.ToString(),
					Label:    nextLabel,
					Style:    discordgo.PrimaryButton,
					Disabled: inert || !page.HasNext(),
				},
			},
		},
	}
}
