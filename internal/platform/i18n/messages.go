package i18n

import (
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys used by the leaderboard views.
const (
	KeyPageTitle      = "leaderboard.title"
	KeyTableHeading   = "leaderboard.table.heading"
	KeyChartHeading   = "leaderboard.chart.heading"
	KeyColumnName     = "leaderboard.column.name"
	KeyColumnKills    = "leaderboard.column.kills"
	KeyColumnDeaths   = "leaderboard.column.deaths"
	KeyColumnPoints   = "leaderboard.column.points"
	KeyChartDataset   = "leaderboard.chart.dataset"
	KeyEmptyTable     = "leaderboard.table.empty"
	KeyEmptyChart     = "leaderboard.chart.empty"
	KeyUnconfirmed    = "leaderboard.cell.unconfirmed"
	KeyLanguageSwitch = "leaderboard.language"
)

var catalogs = map[language.Tag]map[string]string{
	language.AmericanEnglish: {
		KeyPageTitle:      "Leaderboard",
		KeyTableHeading:   "Top 30 Users",
		KeyChartHeading:   "Top %d Users",
		KeyColumnName:     "Name",
		KeyColumnKills:    "Kill count",
		KeyColumnDeaths:   "Death count",
		KeyColumnPoints:   "Points",
		KeyChartDataset:   "Points",
		KeyEmptyTable:     "No users yet.",
		KeyEmptyChart:     "No ranked users yet.",
		KeyUnconfirmed:    "Not saved yet",
		KeyLanguageSwitch: "Language",
	},
	language.BrazilianPortuguese: {
		KeyPageTitle:      "Placar",
		KeyTableHeading:   "Top 30 usuários",
		KeyChartHeading:   "Top %d usuários",
		KeyColumnName:     "Nome",
		KeyColumnKills:    "Abates",
		KeyColumnDeaths:   "Mortes",
		KeyColumnPoints:   "Pontos",
		KeyChartDataset:   "Pontos",
		KeyEmptyTable:     "Nenhum usuário ainda.",
		KeyEmptyChart:     "Nenhum usuário classificado ainda.",
		KeyUnconfirmed:    "Ainda não salvo",
		KeyLanguageSwitch: "Idioma",
	},
}

func init() {
	register()
}

// register installs every catalog under its full tag and its base language
// so "pt" and "pt-BR" resolve alike.
func register() {
	for tag, messages := range catalogs {
		tags := []language.Tag{tag}
		if base, confidence := tag.Base(); confidence != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag != tag {
				tags = append(tags, baseTag)
			}
		}
		keys := make([]string, 0, len(messages))
		for key := range messages {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			for _, registerTag := range tags {
				_ = message.SetString(registerTag, key, messages[key])
			}
		}
	}
}

// Lookup returns the raw catalog text for key in tag, falling back to the
// default language. The bool is false when no catalog defines key.
func Lookup(tag language.Tag, key string) (string, bool) {
	if messages, ok := catalogs[tag]; ok {
		if value, ok := messages[key]; ok {
			return value, true
		}
	}
	value, ok := catalogs[DefaultTag()][key]
	return value, ok
}
