package banbot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"txadmin-bridge/services/banlookup"

	"github.com/bwmarrin/discordgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("txbridge/banbot")

const commandPrefix = "!baninfo"

type Options struct {
	Token           string
	AllowedChannels []string
}

type Bot struct {
	session *discordgo.Session
	lookup  *banlookup.Service
	allowed map[string]bool
}

func New(lookup *banlookup.Service, opts Options) (*Bot, error) {
	session, err := discordgo.New("Bot " + opts.Token)
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]bool, len(opts.AllowedChannels))
	for _, channel := range opts.AllowedChannels {
		allowed[channel] = true
	}

	bot := &Bot{
		session: session,
		lookup:  lookup,
		allowed: allowed,
	}
	session.AddHandler(bot.onMessage)
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return bot, nil
}

func (b *Bot) Open() error {
	return b.session.Open()
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// Reply is what a query resolves to, either plain content or one embed
// per matching ban source.
type Reply struct {
	Content string
	Embeds  []*discordgo.MessageEmbed
}

// HandleQuery turns one inbound query into its reply. There is always
// a reply: rejection, usage prompt, result cards or not-found.
func (b *Bot) HandleQuery(ctx context.Context, channelID, arg string) Reply {
	ctx, span := tracer.Start(ctx, "HandleQuery")
	defer span.End()
	span.SetAttributes(attribute.String("channel_id", channelID))

	if !b.allowed[channelID] {
		return Reply{Content: "This command is not allowed in this channel."}
	}
	if arg == "" {
		return Reply{Content: "Usage: `" + commandPrefix + " <identifier>`"}
	}

	result := b.lookup.Lookup(ctx, arg)
	if !result.Found() {
		return Reply{Content: fmt.Sprintf("No ban found for `%s`.", arg)}
	}

	var embeds []*discordgo.MessageEmbed
	if result.Anticheat != nil {
		embeds = append(embeds, anticheatEmbed(result.Anticheat))
	}
	if result.Panel != nil {
		embeds = append(embeds, panelEmbed(result.Panel))
	}
	return Reply{Embeds: embeds}
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if !strings.HasPrefix(m.Content, commandPrefix) {
		return
	}
	arg := strings.TrimSpace(strings.TrimPrefix(m.Content, commandPrefix))

	reply := b.HandleQuery(context.Background(), m.ChannelID, arg)

	var err error
	if len(reply.Embeds) > 0 {
		_, err = s.ChannelMessageSendEmbeds(m.ChannelID, reply.Embeds)
	} else {
		_, err = s.ChannelMessageSend(m.ChannelID, reply.Content)
	}
	if err != nil {
		slog.Error("failed to send reply", "channel_id", m.ChannelID, "err", err)
	}
}

func formatExpiration(exp banlookup.Expiration) string {
	if exp.Permanent {
		return "Permanent"
	}
	return time.Unix(exp.Unix, 0).UTC().Format("2006-01-02 15:04 MST")
}

func anticheatEmbed(ban *banlookup.AnticheatBan) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "Anticheat ban",
		Color: 0xe74c3c,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Id", Value: ban.Key, Inline: true},
			{Name: "Player", Value: orUnknown(ban.Name), Inline: true},
			{Name: "Author", Value: orUnknown(ban.Author), Inline: true},
			{Name: "Reason", Value: orUnknown(ban.Reason)},
			{Name: "Banned at", Value: time.Unix(ban.Timestamp, 0).UTC().Format("2006-01-02 15:04 MST"), Inline: true},
			{Name: "Expires", Value: formatExpiration(ban.Expiration), Inline: true},
		},
	}
}

func panelEmbed(action *banlookup.PanelAction) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "txAdmin ban",
		Color: 0xf39c12,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Player", Value: orUnknown(action.PlayerName), Inline: true},
			{Name: "Author", Value: orUnknown(action.Author), Inline: true},
			{Name: "Reason", Value: orUnknown(action.Reason)},
			{Name: "Banned at", Value: time.Unix(action.Timestamp, 0).UTC().Format("2006-01-02 15:04 MST"), Inline: true},
			{Name: "Expires", Value: formatExpiration(action.Expiration), Inline: true},
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
