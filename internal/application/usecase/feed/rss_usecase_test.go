package feed

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-cms/pkg/logger"
)

type staticSource struct{ p portfolio.Profile }

func (s staticSource) Get() portfolio.Profile { return s.p }

func TestRSSUseCase_ListsProjects(t *testing.T) {
	p := portfolio.Seed()
	p.Projects[0].Image = "data:image/png;base64,AAAA"

	uc := NewRSSUseCase(staticSource{p}, "https://portfolio.test/", logger.NewNopLogger())
	feed, err := uc.Execute(context.Background())
	require.NoError(t, err)

	require.Len(t, feed.Items, len(p.Projects))
	assert.Equal(t, p.Projects[1].Title, feed.Items[1].Title)
	assert.Equal(t, p.Projects[1].ID.String(), feed.Items[1].Id)
	assert.Nil(t, feed.Items[0].Enclosure)
	assert.Equal(t, "https://portfolio.test", feed.Link.Href)

	rss, err := feed.ToRss()
	require.NoError(t, err)
	assert.True(t, strings.Contains(rss, "<rss"))
	assert.Contains(t, rss, p.Projects[2].Title)
}
