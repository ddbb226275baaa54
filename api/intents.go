package api

import (
	"github.com/bwmarrin/discordgo"
	"sync"
)

var intents []discordgo.Intent
var intentLocker sync.Mutex

func RegisterIntentNeed(neededIntents ...discordgo.Intent) {
	intentLocker.Lock()
	defer intentLocker.Unlock()
	for _, i := range neededIntents {
		add := true
		for _, v := range intents {
			if v == i {
				add = false
				break
			}
		}
		if add {
			intents = append(intents, i)
		}
	}
}

// GetIntent merges every intent modules asked for. Guilds is always included
// since interactions need guild state.
func GetIntent() discordgo.Intent {
	intentLocker.Lock()
	defer intentLocker.Unlock()
	intent := discordgo.IntentsGuilds

	for _, v := range intents {
		intent = intent | v
	}

	return intent
}
