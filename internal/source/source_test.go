package source

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lojhan/openaddr/internal/keys"
)

func TestKind(t *testing.T) {
	require.Equal(t, "Random Numbers", RandomNumbers.String())
	require.Equal(t, "Dates", Dates.String())
	require.Equal(t, "Word-List", WordList.String())
	require.Equal(t, "Unknown", Kind(9).String())

	k, err := ParseKind("2")
	require.NoError(t, err)
	require.Equal(t, Dates, k)

	for _, s := range []string{"0", "4", "x", ""} {
		_, err := ParseKind(s)
		require.Error(t, err, s)
	}
}

func TestRandomIntsDeterministic(t *testing.T) {
	a := NewRandomInts(7)
	b := NewRandomInts(7)
	defer a.Close()
	defer b.Close()

	for i := 0; i < 100; i++ {
		x, err := a.Next()
		require.NoError(t, err)
		y, err := b.Next()
		require.NoError(t, err)
		require.Equal(t, x, y)
	}
}

func TestDates(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := NewDates(start)
	defer s.Close()

	for i := 0; i < 3; i++ {
		d, err := s.Next()
		require.NoError(t, err)
		require.True(t, d.Equal(keys.NewDate(start.Add(time.Duration(i)*time.Second))))
	}
}

func TestWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("apple\nbanana\napple\n"), 0644))

	s, err := OpenWordList(path)
	require.NoError(t, err)
	defer s.Close()

	var words []keys.Word
	for {
		w, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		words = append(words, w)
	}
	require.Equal(t, []keys.Word{"apple", "banana", "apple"}, words)
}

func TestWordListMissing(t *testing.T) {
	_, err := OpenWordList(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
