package seed

import "github.com/vbonduro/groupr/internal/domain"

// Item is one demo object in a catalog group. A nil Category means the
// object is uncategorised.
type Item struct {
	Name        string
	Category    *string
	Description string
}

// CatalogGroup is a demo group before it is stamped with a captain and
// timestamps.
type CatalogGroup struct {
	Group domain.Group
	Items []Item
}

func category(name string) *string { return &name }

func metric(id, name, description string, order int, maxValue float64, prefix, suffix string, categories ...string) domain.Metric {
	if categories == nil {
		categories = []string{}
	}
	return domain.Metric{
		ID:                   id,
		Name:                 name,
		Description:          description,
		Order:                order,
		MinValue:             0,
		MaxValue:             maxValue,
		Prefix:               prefix,
		Suffix:               suffix,
		ApplicableCategories: categories,
	}
}

func featured(g domain.Group) domain.Group {
	g.CaptainID = "user_mock_captain"
	g.CoCaptainIDs = []string{}
	g.CaptainControlEnabled = true
	g.IsPublic = true
	g.IsOpen = true
	g.IsFeatured = true
	return g
}

// Catalog returns a fresh copy of the demo groups, in seeding order.
func Catalog() []CatalogGroup {
	player, team := category("Player"), category("Team")
	actor, movie, director := category("Actor"), category("Movie"), category("Director")

	return []CatalogGroup{
		{
			Group: featured(domain.Group{
				ID:             "nba-best",
				Name:           "NBA's Best",
				Description:    "Rating the best NBA players and teams across different metrics",
				ItemCategories: []string{"Player", "Team"},
				Metrics: []domain.Metric{
					metric("scoring", "Scoring", "Points per game and scoring efficiency", 0, 100, "", "", "Player"),
					metric("defense", "Defense", "Defensive impact and ability", 1, 100, "", "", "Player"),
					metric("playmaking", "Playmaking", "Assists and court vision", 2, 100, "", "", "Player"),
					metric("team-chemistry", "Team Chemistry", "How well the team plays together", 3, 100, "", "", "Team"),
					metric("championship-potential", "Championship Potential", "Likelihood to win it all", 4, 100, "", "%", "Team"),
				},
				DefaultYMetricID: "scoring",
				DefaultXMetricID: "defense",
				ViewCount:        1250,
				RatingCount:      342,
				ShareCount:       89,
			}),
			Items: []Item{
				{"LeBron James", player, "Los Angeles Lakers forward"},
				{"Stephen Curry", player, "Golden State Warriors guard"},
				{"Giannis Antetokounmpo", player, "Milwaukee Bucks forward"},
				{"Kevin Durant", player, "Phoenix Suns forward"},
				{"Luka Doncic", player, "Dallas Mavericks guard"},
				{"Boston Celtics", team, "2024 NBA Champions"},
				{"Denver Nuggets", team, "2023 NBA Champions"},
				{"Los Angeles Lakers", team, "17-time NBA Champions"},
				{"Golden State Warriors", team, "7-time NBA Champions"},
			},
		},
		{
			Group: featured(domain.Group{
				ID:             "nfl-best",
				Name:           "NFL's Best",
				Description:    "Rating NFL players and teams on key performance metrics",
				ItemCategories: []string{"Player", "Team"},
				Metrics: []domain.Metric{
					metric("athleticism", "Athleticism", "Speed, strength, and agility", 0, 100, "", "", "Player"),
					metric("game-iq", "Game IQ", "Football intelligence and decision making", 1, 100, "", "", "Player"),
					metric("clutch", "Clutch Factor", "Performance in high-pressure moments", 2, 100, "", "", "Player"),
					metric("roster-depth", "Roster Depth", "Quality of backup players", 3, 100, "", "", "Team"),
					metric("super-bowl-odds", "Super Bowl Odds", "Chances of winning the Super Bowl", 4, 100, "", "%", "Team"),
				},
				DefaultYMetricID: "athleticism",
				DefaultXMetricID: "game-iq",
				ViewCount:        980,
				RatingCount:      275,
				ShareCount:       62,
			}),
			Items: []Item{
				{"Patrick Mahomes", player, "Kansas City Chiefs quarterback"},
				{"Josh Allen", player, "Buffalo Bills quarterback"},
				{"Travis Kelce", player, "Kansas City Chiefs tight end"},
				{"Tyreek Hill", player, "Miami Dolphins wide receiver"},
				{"Micah Parsons", player, "Dallas Cowboys linebacker"},
				{"Kansas City Chiefs", team, "Back-to-back Super Bowl Champions"},
				{"San Francisco 49ers", team, "NFC powerhouse"},
				{"Philadelphia Eagles", team, "NFC East contender"},
				{"Detroit Lions", team, "NFC North rising team"},
			},
		},
		{
			Group: featured(domain.Group{
				ID:             "presidential-2028",
				Name:           "2028 Presidential Candidates",
				Description:    "Rate potential 2028 presidential candidates on key qualities",
				ItemCategories: []string{},
				Metrics: []domain.Metric{
					metric("leadership", "Leadership", "Ability to lead and inspire", 0, 100, "", ""),
					metric("experience", "Experience", "Political and professional experience", 1, 100, "", ""),
					metric("electability", "Electability", "Likelihood to win the election", 2, 100, "", "%"),
					metric("policy-strength", "Policy Strength", "Quality and clarity of policy positions", 3, 100, "", ""),
				},
				DefaultYMetricID: "leadership",
				DefaultXMetricID: "electability",
				ViewCount:        2100,
				RatingCount:      567,
				ShareCount:       234,
			}),
			Items: []Item{
				{"Gavin Newsom", nil, "Governor of California"},
				{"Ron DeSantis", nil, "Governor of Florida"},
				{"J.D. Vance", nil, "Vice President"},
				{"Josh Shapiro", nil, "Governor of Pennsylvania"},
				{"Gretchen Whitmer", nil, "Governor of Michigan"},
				{"Tim Scott", nil, "Senator from South Carolina"},
			},
		},
		{
			Group: featured(domain.Group{
				ID:             "oscars-2026",
				Name:           "2026 Oscar Nominees",
				Description:    "Rate the potential 2026 Oscar nominees across categories",
				ItemCategories: []string{"Actor", "Movie", "Director"},
				Metrics: []domain.Metric{
					metric("acting", "Acting Performance", "Quality of acting performance", 0, 100, "", "", "Actor"),
					metric("box-office", "Box Office", "Commercial success", 1, 1000, "$", "M", "Movie"),
					metric("critical-acclaim", "Critical Acclaim", "Critical reception and reviews", 2, 100, "", "", "Movie", "Actor", "Director"),
					metric("oscar-odds", "Oscar Odds", "Likelihood to win the Oscar", 3, 100, "", "%", "Movie", "Actor", "Director"),
					metric("direction", "Direction Quality", "Quality of directing", 4, 100, "", "", "Director", "Movie"),
				},
				DefaultYMetricID: "critical-acclaim",
				DefaultXMetricID: "oscar-odds",
				ViewCount:        1567,
				RatingCount:      423,
				ShareCount:       156,
			}),
			Items: []Item{
				{"Timothée Chalamet", actor, "Dune, Wonka"},
				{"Florence Pugh", actor, "Oppenheimer, Little Women"},
				{"Margot Robbie", actor, "Barbie, Once Upon a Time"},
				{"Cillian Murphy", actor, "Oppenheimer Best Actor winner"},
				{"Dune: Part Two", movie, "Denis Villeneuve epic"},
				{"Oppenheimer", movie, "Christopher Nolan biopic"},
				{"Barbie", movie, "Greta Gerwig film"},
				{"Denis Villeneuve", director, "Dune, Blade Runner 2049"},
				{"Christopher Nolan", director, "Oppenheimer, The Dark Knight"},
				{"Greta Gerwig", director, "Barbie, Little Women"},
			},
		},
	}
}
