package discord

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/osse101/OsuLink_Go/internal/osuapi"
	"github.com/osse101/OsuLink_Go/internal/osutrack"
)

const osuProfileURL = "https://osu.ppy.sh/users/"

func profileEmbed(u *osuapi.UserExtended, peak *osutrack.PeakData) *discordgo.MessageEmbed {
	if u == nil {
		return createEmbed("osu! profile", MsgOsuNotFound, ColorWarning, "")
	}

	embed := createEmbed(osuapi.Value(u.Username), "", ColorOsu, "")
	if id := u.ID; id != nil {
		embed.URL = osuProfileURL + strconv.FormatInt(*id, 10)
	}
	if avatar := osuapi.Value(u.AvatarURL); avatar != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: avatar}
	}
	if mode := osuapi.Value(u.Playmode); mode != "" {
		embed.Description = "Mode: **" + cases.Title(language.English).String(mode) + "**"
	}

	if stats := u.Statistics; stats != nil {
		embed.Fields = append(embed.Fields,
			inlineField("Global Rank", rankText(stats.GlobalRank)),
			inlineField("Country Rank", countryRankText(osuapi.Value(u.CountryCode), stats.CountryRank)),
			inlineField("PP", fmt.Sprintf("%.2f", osuapi.Value(stats.PP))),
			inlineField("Accuracy", fmt.Sprintf("%.2f%%", osuapi.Value(stats.HitAccuracy))),
			inlineField("Play Count", strconv.FormatInt(osuapi.Value(stats.PlayCount), 10)),
		)
		if lvl := stats.Level; lvl != nil {
			embed.Fields = append(embed.Fields,
				inlineField("Level", fmt.Sprintf("%d (%d%%)", osuapi.Value(lvl.Current), osuapi.Value(lvl.Progress))))
		}
	}

	if peak != nil && peak.BestGlobalRank != nil {
		embed.Fields = append(embed.Fields, inlineField("Peak Rank", rankText(peak.BestGlobalRank)))
		embed.Footer.Text = FooterOsuTrack
	}
	return embed
}

func updateEmbed(u *osutrack.UpdateResponse) *discordgo.MessageEmbed {
	if !u.UserExists() {
		return createEmbed("osu!track", MsgOsuNotFound, ColorWarning, FooterOsuTrack)
	}
	if u.First {
		return createEmbed(u.Username+" is now tracked",
			"First snapshot recorded. Run `/update` again later to see your progress.",
			ColorInfo, FooterOsuTrack)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Rank change: **%+d**\n", u.PPRank)
	fmt.Fprintf(&sb, "PP: **%+.2f**\n", u.PPRaw)
	fmt.Fprintf(&sb, "Accuracy: **%+.4f%%**\n", u.Accuracy)
	fmt.Fprintf(&sb, "Play Count: **%+d**", u.PlayCount)
	if u.LevelUp {
		sb.WriteString("\n🎉 Level up!")
	}
	if n := len(u.NewHS); n > 0 {
		fmt.Fprintf(&sb, "\n🏆 %d new top play(s)", n)
	}
	return createEmbed("Changes for "+u.Username, sb.String(), ColorInfo, FooterOsuTrack)
}

func inlineField(name, value string) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{Name: name, Value: value, Inline: true}
}

func rankText(rank *int64) string {
	if rank == nil {
		return "unranked"
	}
	return "#" + strconv.FormatInt(*rank, 10)
}

func countryRankText(country string, rank *int64) string {
	if country == "" {
		return rankText(rank)
	}
	return country + " " + rankText(rank)
}

func usersEmbed(users []osuapi.UserExtended, requested int) *discordgo.MessageEmbed {
	if len(users) == 0 {
		return createEmbed("osu! players", MsgOsuNotFound, ColorWarning, "")
	}

	var sb strings.Builder
	for _, u := range users {
		name := osuapi.Value(u.Username)
		if id := u.ID; id != nil {
			name = fmt.Sprintf("[%s](%s%d)", name, osuProfileURL, *id)
		}
		rank := rankText(nil)
		if u.Statistics != nil {
			rank = rankText(u.Statistics.GlobalRank)
		}
		fmt.Fprintf(&sb, "%s %s\n", name, rank)
	}
	embed := createEmbed("osu! players", strings.TrimSuffix(sb.String(), "\n"), ColorOsu, "")
	embed.Footer.Text = fmt.Sprintf("%s | %d of %d found", FooterOsuLink, len(users), requested)
	return embed
}

func helpEmbed(cmds map[string]*discordgo.ApplicationCommand) *discordgo.MessageEmbed {
	names := make([]string, 0, len(cmds))
	for name := range cmds {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		fmt.Fprintf(&sb, "`/%s` %s\n", name, cmds[name].Description)
	}
	return createEmbed("OsuLink commands", strings.TrimSuffix(sb.String(), "\n"), ColorInfo, "")
}
