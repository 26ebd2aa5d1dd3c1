// Package normalize converts raw delimited reservation export files into
// canonical reservation drafts. Booking platforms disagree on column names,
// delimiters and price formats; a platform Profile plus an ordered header
// alias table abstracts over those differences so the rest of the pipeline
// sees one draft shape.
//
// Parsing is row-independent: a malformed row produces a draft with
// defaulted fields instead of aborting the batch, so matching and reporting
// can still proceed and the caller sees the defect downstream.
package normalize

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hostfolio/hostfolio/pkg/reservations"
)

// unknownPlatform is recorded on drafts when neither the file nor the
// profile identifies the source platform.
const unknownPlatform = "Unknown"

// Scanner reads an export file row by row, producing one reservation draft
// per data row. It is a lazy, finite, one-shot sequence in the style of
// bufio.Scanner: not restartable, but deterministic for identical input.
type Scanner struct {
	reader  *csv.Reader
	table   AliasTable
	profile Profile
	header  []string
	draft   reservations.Draft
	row     int
	err     error
	done    bool
}

// New returns a Scanner over r using the given platform profile.
func New(r io.Reader, profile Profile) *Scanner {
	cr := csv.NewReader(stripBOM(r))
	cr.Comma = profile.delimiter()
	// Platforms pad or truncate trailing columns; accept ragged rows and
	// surface the defects as defaulted fields instead of hard failures.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	return &Scanner{
		reader:  cr,
		table:   profile.aliases(),
		profile: profile,
	}
}

// Next advances to the next data row. It returns false when the input is
// exhausted or an unrecoverable read error occurred; Err distinguishes the
// two cases.
func (s *Scanner) Next() bool {
	if s.done {
		return false
	}

	if s.header == nil {
		header, err := s.reader.Read()
		if err != nil {
			s.finish(err)
			return false
		}
		s.header = trimHeader(header)
	}

	for {
		record, err := s.reader.Read()
		if err == io.EOF {
			s.finish(nil)
			return false
		}
		if err != nil {
			// csv.Reader only keeps going after per-row errors such as bare
			// quotes; structural errors end the sequence.
			if _, ok := err.(*csv.ParseError); ok {
				s.row++
				s.draft = s.defaultedDraft()
				return true
			}
			s.finish(err)
			return false
		}

		if isBlank(record) {
			continue
		}
		s.row++
		s.draft = s.toDraft(record)
		return true
	}
}

// Draft returns the draft produced by the last successful call to Next.
func (s *Scanner) Draft() reservations.Draft {
	return s.draft
}

// Row returns the 1-based number of the current draft among emitted drafts;
// the header row and skipped blank rows are not counted.
func (s *Scanner) Row() int {
	return s.row
}

// Err returns the first unrecoverable error encountered, if any.
func (s *Scanner) Err() error {
	return s.err
}

func (s *Scanner) finish(err error) {
	s.done = true
	if err != nil && err != io.EOF {
		s.err = err
	}
}

// toDraft maps a record to a canonical draft via the alias table.
func (s *Scanner) toDraft(record []string) reservations.Draft {
	row := make(map[string]string, len(s.header))
	for i, name := range s.header {
		if i < len(record) {
			row[name] = strings.TrimSpace(record[i])
		}
	}

	draft := reservations.Draft{
		BookingReference: s.table.resolve(row, FieldBookingReference),
		Status:           s.table.resolve(row, FieldStatus),
		GuestName:        s.table.resolve(row, FieldGuestName),
		CheckIn:          s.table.resolve(row, FieldCheckIn),
		CheckOut:         s.table.resolve(row, FieldCheckOut),
		RoomLabel:        s.table.resolve(row, FieldRoomLabel),
		Price:            parsePrice(s.table.resolve(row, FieldPrice)),
		Platform:         s.table.resolve(row, FieldPlatform),
	}

	if draft.Platform == "" {
		if s.profile.Platform != "" {
			draft.Platform = s.profile.Platform
		} else {
			draft.Platform = unknownPlatform
		}
	}
	return draft
}

// defaultedDraft stands in for a row the CSV reader could not decode.
func (s *Scanner) defaultedDraft() reservations.Draft {
	platform := s.profile.Platform
	if platform == "" {
		platform = unknownPlatform
	}
	return reservations.Draft{Price: decimal.Zero, Platform: platform}
}

// ParseAll collects every draft from r. It is a convenience wrapper around
// the Scanner for callers that want the whole batch at once.
func ParseAll(r io.Reader, profile Profile) ([]reservations.Draft, error) {
	scanner := New(r, profile)
	var drafts []reservations.Draft
	for scanner.Next() {
		drafts = append(drafts, scanner.Draft())
	}
	return drafts, scanner.Err()
}

// parsePrice coerces a price string to a decimal, yielding zero on failure
// rather than an error. Currency symbols and thousands separators that
// platforms prepend are stripped before parsing.
func parsePrice(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimLeft(cleaned, "€$£ ")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// stripBOM removes a leading UTF-8 byte order mark, which Booking.com
// exports carry.
func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, name := range header {
		out[i] = strings.TrimSpace(name)
	}
	return out
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}
