package database_test

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrends/internal/database"
	"github.com/jonesrussell/gotrends/internal/models"
)

const testSchema = `
CREATE TABLE platforms (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	is_active INTEGER NOT NULL DEFAULT 1,
	updated_at TEXT NOT NULL DEFAULT ''
);
CREATE TABLE news_items (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	platform_id TEXT NOT NULL,
	rank INTEGER NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	mobile_url TEXT,
	first_crawl_time TEXT NOT NULL DEFAULT '',
	last_crawl_time TEXT NOT NULL DEFAULT '',
	crawl_count INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE rank_history (
	news_item_id INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	crawl_time TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT ''
);
`

func seedDB(t *testing.T) *database.NewsRepository {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	db.MustExec(testSchema)
	db.MustExec(`INSERT INTO platforms (id, name, updated_at) VALUES
		('weibo', 'Weibo', '2026-03-14 09:00'),
		('zhihu', 'Zhihu', '2026-03-14 09:00')`)
	db.MustExec(`INSERT INTO news_items
		(id, title, platform_id, rank, url, last_crawl_time, crawl_count) VALUES
		(1, 'AI chips surge', 'weibo', 1, 'https://example.com/1', '2026-03-14 09:30', 4),
		(2, 'Storm warning issued', 'weibo', 7, 'https://example.com/2', '2026-03-14 09:20', 2),
		(3, 'AI startup funding', 'zhihu', 3, 'https://example.com/3', '2026-03-14 09:10', 1)`)
	db.MustExec(`INSERT INTO rank_history (news_item_id, rank, crawl_time) VALUES
		(1, 2, '2026-03-14 08:00'),
		(1, 1, '2026-03-14 09:00'),
		(2, 7, '2026-03-14 09:00')`)

	return database.NewNewsRepository(db)
}

func TestNewsRepository_Platforms(t *testing.T) {
	repo := seedDB(t)

	platforms, err := repo.Platforms(context.Background())
	require.NoError(t, err)
	require.Len(t, platforms, 2)
	assert.Equal(t, "weibo", platforms[0].ID)
	assert.Equal(t, "Weibo", platforms[0].Name)
}

func TestNewsRepository_Search(t *testing.T) {
	repo := seedDB(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		search    models.NewsSearch
		wantTotal int
		wantFirst string
	}{
		{
			name:      "no filters, newest crawl first",
			search:    models.NewsSearch{},
			wantTotal: 3,
			wantFirst: "AI chips surge",
		},
		{
			name:      "title substring",
			search:    models.NewsSearch{Query: "AI"},
			wantTotal: 2,
		},
		{
			name:      "platform filter",
			search:    models.NewsSearch{PlatformID: "zhihu"},
			wantTotal: 1,
			wantFirst: "AI startup funding",
		},
		{
			name:      "rank ascending",
			search:    models.NewsSearch{Sort: "rank_asc"},
			wantTotal: 3,
			wantFirst: "AI chips surge",
		},
		{
			name:      "unknown sort falls back to default",
			search:    models.NewsSearch{Sort: "evil; DROP TABLE news_items"},
			wantTotal: 3,
			wantFirst: "AI chips surge",
		},
		{
			name:      "offset pages past the first item",
			search:    models.NewsSearch{Offset: 1},
			wantTotal: 3,
			wantFirst: "Storm warning issued",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := repo.Search(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, page.Total)
			if tt.wantFirst != "" {
				require.NotEmpty(t, page.Items)
				assert.Equal(t, tt.wantFirst, page.Items[0].Title)
			}
		})
	}
}

func TestNewsRepository_SearchJoinsPlatformName(t *testing.T) {
	repo := seedDB(t)

	page, err := repo.Search(context.Background(), models.NewsSearch{PlatformID: "weibo"})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	require.NotNil(t, page.Items[0].PlatformName)
	assert.Equal(t, "Weibo", *page.Items[0].PlatformName)
}

func TestNewsRepository_GetByID(t *testing.T) {
	repo := seedDB(t)
	ctx := context.Background()

	item, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "AI chips surge", item.Title)
	assert.Equal(t, 4, item.CrawlCount)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestNewsRepository_RankHistory(t *testing.T) {
	repo := seedDB(t)

	entries, err := repo.RankHistory(context.Background(), 1, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// Newest first.
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 2, entries[1].Rank)

	limited, err := repo.RankHistory(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := database.Open(t.TempDir() + "/absent/news.db")
	assert.Error(t, err)
}
