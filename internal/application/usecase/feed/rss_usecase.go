package feed

import (
	"context"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"go.uber.org/zap"

	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

// ProfileSource is the read side of the content store.
type ProfileSource interface {
	Get() portfolio.Profile
}

type RSSUseCase struct {
	source  ProfileSource
	siteURL string
	logger  logger.Logger
	now     func() time.Time
}

func NewRSSUseCase(source ProfileSource, siteURL string, log logger.Logger) *RSSUseCase {
	return &RSSUseCase{
		source:  source,
		siteURL: strings.TrimRight(siteURL, "/"),
		logger:  log,
		now:     time.Now,
	}
}

// Execute renders the portfolio projects as a feed, in display order.
func (uc *RSSUseCase) Execute(ctx context.Context) (*feeds.Feed, error) {
	p := uc.source.Get()

	feed := &feeds.Feed{
		Title:       p.Name + " - Projects",
		Link:        &feeds.Link{Href: uc.siteURL},
		Description: p.Title,
		Author:      &feeds.Author{Name: p.Name, Email: p.Contact.Email},
		Created:     uc.now(),
	}

	items := make([]*feeds.Item, 0, len(p.Projects))
	for _, pr := range p.Projects {
		link := pr.DemoURL
		if link == "" {
			link = pr.GitHubURL
		}
		if link == "" {
			link = uc.siteURL + "/#projects"
		}
		item := &feeds.Item{
			Id:          pr.ID.String(),
			Title:       pr.Title,
			Link:        &feeds.Link{Href: link},
			Description: strings.Join(pr.Description, " "),
			Created:     feed.Created,
		}
		if len(pr.Technologies) > 0 {
			item.Content = "Technologies: " + strings.Join(pr.Technologies, ", ")
		}
		// inline previews are not valid enclosure URLs
		if strings.HasPrefix(pr.Image, "http") {
			item.Enclosure = &feeds.Enclosure{Url: pr.Image, Type: "image/jpeg"}
		}
		items = append(items, item)
	}

	feed.Items = items
	uc.logger.Debug("RSS feed generated", zap.Int("item_count", len(feed.Items)))
	return feed, nil
}
