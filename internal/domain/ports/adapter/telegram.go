package adapter

import "context"

// ChatIDLookup discovers the chat id of the most recent conversation a bot
// took part in.
type ChatIDLookup interface {
	LatestChatID(ctx context.Context, botToken string) (string, error)
}
