package source

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/lojhan/openaddr/internal/keys"
)

type Kind int

const (
	RandomNumbers Kind = iota + 1
	Dates
	WordList
)

func (k Kind) String() string {
	switch k {
	case RandomNumbers:
		return "Random Numbers"
	case Dates:
		return "Dates"
	case WordList:
		return "Word-List"
	}
	return "Unknown"
}

func ParseKind(s string) (Kind, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid data source %q: %w", s, err)
	}
	kind := Kind(n)
	if kind < RandomNumbers || kind > WordList {
		return 0, fmt.Errorf("data source must be 1, 2 or 3, got %d", n)
	}
	return kind, nil
}

// Source yields keys one at a time. Next returns io.EOF once the source
// is exhausted; the generated sources never are.
type Source[K any] interface {
	Next() (K, error)
	Close() error
}

type RandomInts struct {
	rng *rand.Rand
}

func NewRandomInts(seed int64) *RandomInts {
	return &RandomInts{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomInts) Next() (keys.Int, error) {
	return keys.Int(int32(s.rng.Uint32())), nil
}

func (s *RandomInts) Close() error {
	return nil
}

// DateStream yields start, start+1s, start+2s and so on.
type DateStream struct {
	next time.Time
}

func NewDates(start time.Time) *DateStream {
	return &DateStream{next: start}
}

func (s *DateStream) Next() (keys.Date, error) {
	d := keys.NewDate(s.next)
	s.next = s.next.Add(time.Second)
	return d, nil
}

func (s *DateStream) Close() error {
	return nil
}

type Words struct {
	file    *os.File
	scanner *bufio.Scanner
}

func OpenWordList(path string) (*Words, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list: %w", err)
	}
	return &Words{
		file:    file,
		scanner: bufio.NewScanner(file),
	}, nil
}

func (s *Words) Next() (keys.Word, error) {
	if s.scanner.Scan() {
		return keys.Word(s.scanner.Text()), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read word list: %w", err)
	}
	return "", io.EOF
}

func (s *Words) Close() error {
	return s.file.Close()
}
