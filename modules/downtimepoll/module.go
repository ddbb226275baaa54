package downtimepoll

import (
	"context"
	"fmt"
	"github.com/bwmarrin/discordgo"
	"github.com/lordralex/downtimepoll/api"
	"github.com/lordralex/downtimepoll/api/database"
	"github.com/lordralex/downtimepoll/api/env"
	"github.com/lordralex/downtimepoll/api/logger"
	"github.com/lordralex/downtimepoll/modules/downtimepoll/poll"
	"github.com/lordralex/downtimepoll/modules/downtimepoll/storage"
	"sync"
	"time"
)

const commandTimeout = 10 * time.Second

type Module struct {
	api.Module
}

var appId string
var footer string
var manager *poll.Manager

// displays maps a paging session to the interaction whose response shows it.
var displays = make(map[string]*discordgo.Interaction)
var displayLocker sync.Mutex

func (*Module) Load(ds *discordgo.Session) {
	appId = env.Get("app.id")
	footer = env.GetOr("downtimepoll.footer", defaultFooter)

	store, err := openStore(env.GetOr("downtimepoll.storage", "file"))
	if err != nil {
		logger.Err().Printf("Unable to open poll storage: %s", err)
		return
	}

	sessions := poll.NewSessions(poll.SessionOptions{
		PageSize: env.GetIntOr("downtimepoll.pagesize", poll.DefaultPageSize),
		Timeout:  env.GetDurationOr("downtimepoll.timeout", poll.DefaultSessionTimeout),
		Renew:    env.GetBool("downtimepoll.renew"),
		OnExpire: func(s *poll.Session) {
			freezeDisplay(ds, s)
		},
	})

	manager = poll.NewManager(store, sessions, poll.Options{
		Retries: env.GetIntOr("downtimepoll.retries", 2),
	})

	api.RegisterIntentNeed(discordgo.IntentsGuilds)

	commands := make([]*api.SlashCommand, 0)
	for _, v := range []*discordgo.ApplicationCommand{pollStartOperation, pollCloseOperation, guessOperation, guessesOperation} {
		commands = append(commands, &api.SlashCommand{Command: v, Run: runOperation})
	}
	api.RegisterSlashCommands(ds, appId, env.GetStringArray("downtimepoll.guilds", ";"), commands)

	ds.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionMessageComponent {
			return
		}
		id := &NavigationId{}
		if id.FromString(i.MessageComponentData().CustomID) {
			runNavigation(s, i, id)
		}
	})
}

// Stop expires the live guess lists so their buttons are disabled before the
// bot goes away.
func (*Module) Stop() {
	if manager != nil {
		manager.Sessions().Stop()
	}
}

func (*Module) Name() string {
	return "downtimepoll"
}

func openStore(kind string) (poll.Store, error) {
	switch kind {
	case "memory":
		return poll.NewMemoryStore(), nil
	case "file":
		return storage.NewFileStore(env.GetOr("downtimepoll.dir", "guesses"))
	case "database":
		db, err := database.Get()
		if err != nil {
			return nil, err
		}
		if err = storage.Migrate(db); err != nil {
			return nil, err
		}
		return storage.NewDatabaseStore(db), nil
	}
	return nil, fmt.Errorf("unknown storage %q", kind)
}

func runOperation(ds *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	user := api.InteractionUser(i.Interaction)
	if user == nil {
		return
	}

	cmd := poll.Command{
		Operation: data.Name,
		Scope:     api.GuildOrChannel(i.Interaction),
		Caller: poll.Caller{
			ID:       user.ID,
			Name:     api.DisplayName(i.Interaction),
			Operator: api.HasPermission(i.Interaction, manageServer),
		},
		Args: commandArgs(data),
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reply, err := manager.Dispatch(ctx, cmd)
	if err != nil && !poll.IsRejection(err) {
		logger.Err().Printf("%s failed in %s: %s", cmd.Operation, cmd.Scope, err)
	}

	content, ephemeral := replyText(reply.Operation, reply, err)
	if ephemeral {
		api.RespondEphemeral(ds, i.Interaction, content)
		return
	}

	if reply.Session == nil {
		response := &discordgo.InteractionResponseData{Content: content}
		if reply.Operation == poll.OperationClose && reply.Result.HasWinner {
			response.AllowedMentions = &discordgo.MessageAllowedMentions{Users: []string{reply.Result.Winner.SubmitterID}}
		}
		api.RespondPublic(ds, i.Interaction, response)
		return
	}

	page := reply.Session.Current()
	api.RespondPublic(ds, i.Interaction, &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{listEmbed(page, footer, botAvatar(ds))},
		Components: navigationButtons(reply.Session.ID, page, page.Total <= 1),
	})

	if page.Total <= 1 {
		manager.Sessions().End(reply.Session.ID)
		return
	}

	displayLocker.Lock()
	displays[reply.Session.ID] = i.Interaction
	displayLocker.Unlock()
}

func runNavigation(ds *discordgo.Session, i *discordgo.InteractionCreate, id *NavigationId) {
	dir, ok := poll.ParseDirection(id.Action)
	user := api.InteractionUser(i.Interaction)
	if !ok || user == nil {
		acknowledge(ds, i.Interaction)
		return
	}

	session, page, result := manager.Sessions().Navigate(id.Session, user.ID, dir)
	switch result {
	case poll.Moved:
		err := ds.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Embeds:     []*discordgo.MessageEmbed{listEmbed(page, footer, botAvatar(ds))},
				Components: navigationButtons(session.ID, page, false),
			},
		})
		if err != nil {
			logger.Err().Printf("unable to update guess list: %s", err)
		}
	case poll.Expired:
		err := ds.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseUpdateMessage,
			Data: &discordgo.InteractionResponseData{
				Components: navigationButtons(id.Session, page, true),
			},
		})
		if err != nil {
			logger.Err().Printf("unable to update guess list: %s", err)
		}
	default:
		acknowledge(ds, i.Interaction)
	}
}

// freezeDisplay disables the buttons of an expired list. The message itself
// stays.
func freezeDisplay(ds *discordgo.Session, s *poll.Session) {
	displayLocker.Lock()
	interaction := displays[s.ID]
	delete(displays, s.ID)
	displayLocker.Unlock()

	if interaction == nil {
		return
	}

	components := navigationButtons(s.ID, s.Current(), true)
	_, err := ds.InteractionResponseEdit(interaction, &discordgo.WebhookEdit{Components: &components})
	if err != nil {
		logger.Err().Printf("unable to disable guess list %s: %s", s.ID, err)
	}
}

// acknowledge answers a button press without changing anything.
func acknowledge(ds *discordgo.Session, i *discordgo.Interaction) {
	_ = ds.InteractionRespond(i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
}

func botAvatar(ds *discordgo.Session) string {
	if ds.State == nil || ds.State.User == nil {
		return ""
	}
	return ds.State.User.AvatarURL("")
}
