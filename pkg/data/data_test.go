package data

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordValues(t *testing.T) {
	r := Record{OnlineOrder: "Yes", BookTable: "No", Votes: 775, RestType: "Casual Dining", Cost: 800.5, Type: "Buffet", City: "BTM"}
	assert.Equal(t, []string{"Yes", "No", "775", "Casual Dining", "800.5", "Buffet", "BTM"}, r.Values())
}

func TestFromRecords(t *testing.T) {
	f, err := FromRecords(
		Record{OnlineOrder: "Yes", BookTable: "No", Votes: 1, RestType: "Cafe", Cost: 300, Type: "Cafes", City: "HSR"},
		Record{OnlineOrder: "No", BookTable: "Yes", Votes: 2, RestType: "Bar", Cost: 900, Type: "Pubs and bars", City: "MG Road"},
	)
	require.NoError(t, err)
	assert.Equal(t, FeatureColumns, f.Names())
	assert.Equal(t, 2, f.Nrow())

	votes, err := f.Float(ColVotes)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, votes)

	_, err = f.Float(ColCity)
	assert.ErrorContains(t, err, "row 1")
	_, err = f.Column("rate")
	assert.Error(t, err)
}

func TestParseKeepsCellsAsStrings(t *testing.T) {
	f, err := Parse(strings.NewReader("rate,votes,city\n4.1,007,BTM\nNaN,,HSR\n"))
	require.NoError(t, err)
	votes, err := f.Column("votes")
	require.NoError(t, err)
	assert.Equal(t, "007", votes[0])
	assert.Equal(t, "", votes[1])

	_, err = Parse(strings.NewReader("a,b\n1,2,3\n"))
	assert.Error(t, err)
}

func TestFrameSubsetSelectAndCSV(t *testing.T) {
	f, err := Parse(strings.NewReader("rate,votes,city\n4.1,10,BTM\n3.2,20,HSR\n3.9,30,JP Nagar\n"))
	require.NoError(t, err)

	sub, err := f.Subset([]int{2, 0})
	require.NoError(t, err)
	city, err := sub.Column("city")
	require.NoError(t, err)
	assert.Equal(t, []string{"JP Nagar", "BTM"}, city)

	sel, err := f.Select("city", "rate")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "rate"}, sel.Names())
	_, err = f.Select("missing")
	assert.Error(t, err)

	dropped, err := f.Drop("rate")
	require.NoError(t, err)
	assert.False(t, dropped.Has("rate"))

	path := filepath.Join(t.TempDir(), "out", "sub.csv")
	require.NoError(t, sub.WriteCSV(path))
	back, err := ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, sub.Names(), back.Names())
	rates, err := back.Float("rate")
	require.NoError(t, err)
	assert.Equal(t, []float64{3.9, 4.1}, rates)
}

func TestVocabularies(t *testing.T) {
	assert.Len(t, RestTypes, 22)
	assert.Len(t, Types, 7)
	assert.Len(t, Cities, 30)
	assert.True(t, Contains(Cities, "Koramangala 5th Block"))
	assert.False(t, Contains(Cities, "Atlantis"))
}
