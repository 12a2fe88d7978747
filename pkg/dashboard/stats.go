package dashboard

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/perspective/database"
	"github.com/perspective/pkg/live"
)

const (
	RecentLimit    = 5
	TimelineMonths = 6
	TimelineLayout = "Jan 06"
)

var categoryColours = map[string]string{
	"wellness":   "hsl(280, 30%, 55%)",
	"travel":     "hsl(195, 50%, 50%)",
	"creativity": "hsl(330, 40%, 55%)",
	"growth":     "hsl(50, 45%, 50%)",
	"lifestyle":  "hsl(140, 20%, 50%)",
	"general":    "hsl(0, 0%, 50%)",
}

var statusColours = struct {
	Published string
	Draft     string
}{
	Published: "hsl(140, 20%, 50%)",
	Draft:     "hsl(0, 0%, 60%)",
}

type Counts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
	Drafts    int `json:"drafts"`
}

type Slice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Fill  string `json:"fill"`
}

type MonthCount struct {
	Month    string `json:"month"`
	Articles int    `json:"articles"`
}

type RecentArticle struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Category  string    `json:"category"`
	TagClass  string    `json:"tag_class"`
	Published bool      `json:"published"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	Date      string    `json:"date"`
}

type Stats struct {
	Articles          Counts          `json:"articles"`
	ActiveSubscribers int             `json:"active_subscribers"`
	TotalSubscribers  int             `json:"total_subscribers"`
	AdminUsers        int             `json:"admin_users"`
	TotalUsers        int             `json:"total_users"`
	ThisMonth         int             `json:"this_month"`
	LastMonth         int             `json:"last_month"`
	GrowthRate        int             `json:"growth_rate"`
	Recent            []RecentArticle `json:"recent"`
	Timeline          []MonthCount    `json:"timeline"`
	Categories        []Slice         `json:"categories"`
	Status            []Slice         `json:"status"`
}

// Build computes the dashboard from full collections. Articles must be newest first.
func Build(articles []database.Article, subscribers []database.NewsletterSubscriber, roles []database.UserRole, now time.Time) Stats {
	stats := Stats{
		TotalSubscribers: len(subscribers),
		TotalUsers:       len(roles),
		Recent:           make([]RecentArticle, 0, RecentLimit),
	}

	for _, article := range articles {
		stats.Articles.Total++

		if article.Published {
			stats.Articles.Published++
		} else {
			stats.Articles.Drafts++
		}
	}

	for _, subscriber := range subscribers {
		if subscriber.IsActive {
			stats.ActiveSubscribers++
		}
	}

	for _, role := range roles {
		if role.IsAdmin() {
			stats.AdminUsers++
		}
	}

	stats.ThisMonth, stats.LastMonth = monthlyCounts(articles, now)
	stats.GrowthRate = GrowthRate(stats.ThisMonth, stats.LastMonth)

	for i := 0; i < len(articles) && i < RecentLimit; i++ {
		article := articles[i]

		stats.Recent = append(stats.Recent, RecentArticle{
			ID:        article.ID,
			Title:     article.Title,
			Category:  article.Category,
			TagClass:  live.TagClass(article.Category),
			Published: article.Published,
			Author:    article.Author,
			CreatedAt: article.CreatedAt,
			Date:      live.FormatDate(article.CreatedAt),
		})
	}

	stats.Timeline = Timeline(articles, now)
	stats.Categories = Categories(articles)
	stats.Status = []Slice{
		{Name: "Published", Value: stats.Articles.Published, Fill: statusColours.Published},
		{Name: "Draft", Value: stats.Articles.Drafts, Fill: statusColours.Draft},
	}

	return stats
}

// GrowthRate compares this month with last month as a rounded percentage.
func GrowthRate(thisMonth, lastMonth int) int {
	if lastMonth > 0 {
		return int(math.Round(float64(thisMonth-lastMonth) / float64(lastMonth) * 100))
	}

	if thisMonth > 0 {
		return 100
	}

	return 0
}

// Timeline counts articles per month over the last six months, oldest first.
func Timeline(articles []database.Article, now time.Time) []MonthCount {
	start := monthStart(now)
	timeline := make([]MonthCount, TimelineMonths)
	index := make(map[string]int, TimelineMonths)

	for i := 0; i < TimelineMonths; i++ {
		month := start.AddDate(0, i-(TimelineMonths-1), 0)
		label := month.Format(TimelineLayout)

		timeline[i] = MonthCount{Month: label}
		index[label] = i
	}

	for _, article := range articles {
		label := article.CreatedAt.In(now.Location()).Format(TimelineLayout)

		if i, ok := index[label]; ok {
			timeline[i].Articles++
		}
	}

	return timeline
}

// Categories counts articles per category, largest first.
func Categories(articles []database.Article) []Slice {
	counts := make(map[string]int)

	for _, article := range articles {
		name := strings.ToLower(strings.TrimSpace(article.Category))
		if name == "" {
			name = database.DefaultCategory
		}

		counts[name]++
	}

	slices := make([]Slice, 0, len(counts))

	for name, value := range counts {
		fill, ok := categoryColours[name]
		if !ok {
			fill = categoryColours[database.DefaultCategory]
		}

		slices = append(slices, Slice{Name: capitalise(name), Value: value, Fill: fill})
	}

	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Value != slices[j].Value {
			return slices[i].Value > slices[j].Value
		}

		return slices[i].Name < slices[j].Name
	})

	return slices
}

func monthlyCounts(articles []database.Article, now time.Time) (int, int) {
	thisStart := monthStart(now)
	lastStart := thisStart.AddDate(0, -1, 0)
	nextStart := thisStart.AddDate(0, 1, 0)

	var thisMonth, lastMonth int

	for _, article := range articles {
		created := article.CreatedAt.In(now.Location())

		switch {
		case !created.Before(thisStart) && created.Before(nextStart):
			thisMonth++
		case !created.Before(lastStart) && created.Before(thisStart):
			lastMonth++
		}
	}

	return thisMonth, lastMonth
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func capitalise(name string) string {
	if name == "" {
		return name
	}

	return strings.ToUpper(name[:1]) + name[1:]
}
