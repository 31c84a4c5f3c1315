package book

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func titles(t Table) []string {
	out := make([]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		out = append(out, r[1])
	}
	return out
}

func TestDisplayColumns(t *testing.T) {
	assert.Equal(t,
		[]string{"Nr", "Tytuł", "Autor", "Dziedzina", "Data", "Wrzucający", "Recenzja"},
		DisplayColumns(),
	)
}

func TestPrepareForDisplay_Row(t *testing.T) {
	records := []Book{{
		Position:    3,
		Author:      "Bolesław Prus",
		Title:       "Lalka",
		Genre:       "powieść",
		Contributor: "Anna",
		UploadedAt:  day(2024, time.March, 5),
	}}

	table := PrepareForDisplay(records, Bytewise)

	require.Len(t, table.Rows, 1)
	assert.Equal(t,
		[]string{"3", "Lalka", "Bolesław Prus", "powieść", "2024-03-05", "Anna", Placeholder},
		table.Rows[0],
	)
}

func TestPrepareForDisplay_DedupKeepsFirst(t *testing.T) {
	records := []Book{
		{Position: 1, Author: "Bolesław Prus", Title: "Lalka", Contributor: "Anna"},
		{Position: 2, Author: "Prus", Title: "Lalka", Contributor: "Jan"},
		{Position: 3, Author: "Sienkiewicz", Title: "Potop", Contributor: "Jan"},
	}

	table := PrepareForDisplay(records, Bytewise)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "Lalka", table.Rows[0][1])
	assert.Equal(t, "Bolesław Prus", table.Rows[0][2])
	assert.Equal(t, "Anna", table.Rows[0][5])
}

func TestPrepareForDisplay_PlaceholderDates(t *testing.T) {
	records := []Book{
		{Title: "A", UploadedAt: time.Time{}},
		{Title: "B", UploadedAt: Epoch},
		{Title: "C", UploadedAt: Epoch.AddDate(-1, 0, 0)},
		{Title: "D", UploadedAt: Epoch.AddDate(0, 0, 1)},
	}

	table := PrepareForDisplay(records, Bytewise)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, Placeholder, table.Rows[0][4])
	assert.Equal(t, Placeholder, table.Rows[1][4])
	assert.Equal(t, Placeholder, table.Rows[2][4])
	assert.Equal(t, "1899-12-31", table.Rows[3][4])
}

func TestPrepareForDisplay_PolishOrder(t *testing.T) {
	records := []Book{
		{Title: "Żona"},
		{Title: "Ćma"},
		{Title: "Zamek"},
		{Title: "Cyrk"},
		{Title: "Dom"},
		{Title: "Ślub"},
		{Title: "Sad"},
	}

	table := PrepareForDisplay(records, NewPolishCollator())

	assert.Equal(t, []string{"Cyrk", "Ćma", "Dom", "Sad", "Ślub", "Zamek", "Żona"}, titles(table))
}

func TestPrepareForDisplay_Empty(t *testing.T) {
	table := PrepareForDisplay(nil, Bytewise)

	assert.Len(t, table.Columns, 7)
	assert.Empty(t, table.Rows)
}

func TestPrepareForDisplay_DoesNotMutateInput(t *testing.T) {
	records := []Book{{Title: "B"}, {Title: "A"}}

	PrepareForDisplay(records, Bytewise)

	assert.Equal(t, "B", records[0].Title)
	assert.Empty(t, records[0].Author)
}

func TestPrepareForDisplay_DuplicatePush(t *testing.T) {
	pushed := Book{Author: "Kowalski", Title: "Lalka", Genre: "powieść", Contributor: "Anna", UploadedAt: day(2023, time.January, 10)}
	again := pushed
	again.Genre = ""

	table := PrepareForDisplay([]Book{pushed, again}, NewPolishCollator())

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Lalka", table.Rows[0][1])
	assert.Equal(t, "powieść", table.Rows[0][3])
}

func TestPrepareForDisplay_SortedDistinctTitles(t *testing.T) {
	pool := []string{
		"", "Lalka", "lalka", "Łąka", "Ląd", "Potop", "Ćma", "Cyrk", "Źdźbło",
		"Żona", "Zamek", "Sad", "Ślub", "Ogniem i mieczem", "Quo vadis", "Ósemka",
	}
	rng := rand.New(rand.NewPCG(1, 2))
	c := NewPolishCollator()

	for iter := range 200 {
		records := make([]Book, rng.IntN(40))
		distinct := map[string]struct{}{}
		firstAuthor := map[string]string{}
		for i := range records {
			title := pool[rng.IntN(len(pool))]
			author := pool[rng.IntN(len(pool))]
			records[i] = Book{
				Position:   i + 1,
				Title:      title,
				Author:     author,
				UploadedAt: day(2020+rng.IntN(5), time.Month(1+rng.IntN(12)), 1+rng.IntN(28)),
			}
			shown := title
			if shown == "" {
				shown = Placeholder
			}
			if _, ok := distinct[shown]; !ok {
				distinct[shown] = struct{}{}
				if author == "" {
					author = Placeholder
				}
				firstAuthor[shown] = author
			}
		}

		rows := PrepareForDisplay(records, c).Rows
		require.Len(t, rows, len(distinct), "iteration %d", iter)

		seen := map[string]struct{}{}
		for i, r := range rows {
			_, dup := seen[r[1]]
			require.False(t, dup, "iteration %d: title %q repeated", iter, r[1])
			seen[r[1]] = struct{}{}
			assert.Equal(t, firstAuthor[r[1]], r[2], "iteration %d: title %q", iter, r[1])
			if i > 0 {
				require.LessOrEqual(t, c.Compare(rows[i-1][1], r[1]), 0,
					"iteration %d: %q before %q", iter, rows[i-1][1], r[1])
			}
		}
	}
}
