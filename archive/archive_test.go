package archive

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/printfeed/printfeed/edition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() *edition.Result {
	return &edition.Result{
		TimeFmt:  "Monday, January 2, 2006",
		CoverURL: "https://example.com/cover-750.jpg",
		Feeds: []edition.Feed{
			{
				Title: "Front section",
				Articles: []edition.Article{
					{Title: "Lead Story", URL: "https://example.com/articles/lead", Description: "d1"},
					{Title: "Second Story", URL: "https://example.com/articles/second", Description: "d2"},
				},
			},
			{
				Title: "Markets",
				Articles: []edition.Article{
					{Title: "Stocks", URL: "https://example.com/articles/stocks"},
				},
			},
		},
	}
}

// TestSaveResult_RoundTrip verifies an edition archives and reads
// back in order
func TestSaveResult_RoundTrip(t *testing.T) {
	store := testStore(t)

	id, err := store.SaveResult(sampleResult())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	articles, err := store.Articles(id)
	require.NoError(t, err)
	require.Len(t, articles, 3)

	assert.Equal(t, "Lead Story", articles[0].Title)
	assert.Equal(t, "Front section", articles[0].Section)
	assert.Equal(t, 0, articles[0].Position)
	assert.Equal(t, "Stocks", articles[2].Title)
	assert.Equal(t, "Markets", articles[2].Section)
}

// TestSaveResult_DuplicateURLsSuppressed verifies the same URL in
// two sections is stored once, first occurrence winning
func TestSaveResult_DuplicateURLsSuppressed(t *testing.T) {
	store := testStore(t)

	res := &edition.Result{
		TimeFmt: "Monday, January 2, 2006",
		Feeds: []edition.Feed{
			{Title: "Front section", Articles: []edition.Article{
				{Title: "Shared Story", URL: "https://example.com/articles/shared"},
			}},
			{Title: "What's News", Articles: []edition.Article{
				{Title: "Shared Story Digest", URL: "https://example.com/articles/shared"},
				{Title: "Unique Story", URL: "https://example.com/articles/unique"},
			}},
		},
	}

	id, err := store.SaveResult(res)
	require.NoError(t, err)

	articles, err := store.Articles(id)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Shared Story", articles[0].Title, "first occurrence should win")
	assert.Equal(t, "Front section", articles[0].Section)
}

// TestListEditions verifies summaries include article counts
func TestListEditions(t *testing.T) {
	store := testStore(t)

	id, err := store.SaveResult(sampleResult())
	require.NoError(t, err)

	editions, err := store.ListEditions()
	require.NoError(t, err)
	require.Len(t, editions, 1)

	assert.Equal(t, id, editions[0].EditionID)
	assert.Equal(t, 3, editions[0].ArticleCount)
	assert.Equal(t, "https://example.com/cover-750.jpg", editions[0].CoverURL)
	assert.False(t, editions[0].FetchedAt.IsZero())
}

// TestListEditions_Empty verifies an empty archive lists nothing
func TestListEditions_Empty(t *testing.T) {
	store := testStore(t)

	editions, err := store.ListEditions()
	require.NoError(t, err)
	assert.Empty(t, editions)
}

// TestArticles_UnknownEdition verifies the sentinel error
func TestArticles_UnknownEdition(t *testing.T) {
	store := testStore(t)

	_, err := store.Articles(uuid.New())
	assert.ErrorIs(t, err, ErrEditionNotFound)
}
