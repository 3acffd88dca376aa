// Package roster extracts invitee email addresses from uploaded class lists.
package roster

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
)

// MaxSamples caps every sample list in a Result.
const MaxSamples = 20

// ErrInvalidRoster is wrapped by every extraction failure.
var ErrInvalidRoster = errors.New("invalid roster")

// CommonEmailHeaders are the normalized headers recognised as the email column.
var CommonEmailHeaders = []string{
	"email",
	"e_mail",
	"email_address",
	"e_mail_address",
	"mail",
	"invited_email",
	"invitedemail",
	"user_email",
}

// Result summarises one extraction.
type Result struct {
	Emails        []string // valid, normalized, unique within the file
	TotalRows     int      // data rows, header excluded
	Extracted     int      // non-empty cells in the email column
	InvalidCount  int
	SampleInvalid []string
	Headers       []string
	EmailHeader   string
	SheetName     string
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidRoster}, args...)...)
}

// NormalizeHeader trims and lower-cases a header and folds spaces and
// dashes to underscores.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(h)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// LooksLikeEmail is a cheap plausibility check, not RFC 5322 validation.
func LooksLikeEmail(s string) bool {
	if s == "" || strings.Count(s, "@") != 1 || strings.ContainsAny(s, " \t") {
		return false
	}
	local, domain, _ := strings.Cut(s, "@")
	return local != "" && strings.Contains(domain, ".")
}

// detectColumn finds the email column: the hint first, then the common
// headers in column order.
func detectColumn(headers []string, hint string) (int, error) {
	if h := NormalizeHeader(hint); h != "" {
		for i, name := range headers {
			if name == h {
				return i, nil
			}
		}
	}

	common := make(map[string]struct{}, len(CommonEmailHeaders))
	for _, h := range CommonEmailHeaders {
		common[h] = struct{}{}
	}
	for i, name := range headers {
		if _, ok := common[name]; ok {
			return i, nil
		}
	}

	found := make([]string, 0, len(headers))
	for _, h := range headers {
		if h != "" {
			found = append(found, h)
		}
	}
	expected := append([]string(nil), CommonEmailHeaders...)
	sort.Strings(expected)
	return -1, invalidf("could not find an email column; found columns %v, expected one of %v", found, expected)
}

// ExtractRows applies the extraction rules to a table whose first row is
// the header.
func ExtractRows(rows [][]string, emailColumn string) (Result, error) {
	if len(rows) == 0 {
		return Result{}, invalidf("file is empty")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = NormalizeHeader(h)
	}
	col, err := detectColumn(headers, emailColumn)
	if err != nil {
		return Result{}, err
	}

	res := Result{EmailHeader: headers[col]}
	for _, h := range headers {
		if h != "" {
			res.Headers = append(res.Headers, h)
		}
	}

	seen := make(map[string]struct{})
	for _, row := range rows[1:] {
		res.TotalRows++
		if col >= len(row) {
			continue
		}
		email := NormalizeEmail(row[col])
		if email == "" {
			continue
		}
		res.Extracted++

		if !LooksLikeEmail(email) {
			res.InvalidCount++
			if len(res.SampleInvalid) < MaxSamples {
				res.SampleInvalid = append(res.SampleInvalid, email)
			}
			continue
		}
		if _, dup := seen[email]; dup {
			continue
		}
		seen[email] = struct{}{}
		res.Emails = append(res.Emails, email)
	}

	if res.Extracted == 0 {
		return Result{}, invalidf("no emails found in the uploaded file")
	}
	return res, nil
}

// ExtractList applies the per-address rules to an explicit list, as sent in
// a JSON body. TotalRows counts every entry.
func ExtractList(emails []string) (Result, error) {
	rows := make([][]string, 0, len(emails)+1)
	rows = append(rows, []string{"email"})
	for _, e := range emails {
		rows = append(rows, []string{e})
	}
	return ExtractRows(rows, "email")
}

// Parse picks a reader by file extension.
func Parse(filename string, r io.Reader, sheetName, emailColumn string) (Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return ParseXLSX(r, sheetName, emailColumn)
	case ".csv":
		return ParseCSV(r, emailColumn)
	default:
		return Result{}, invalidf("unsupported file type %q, upload an .xlsx or .csv file", filepath.Ext(filename))
	}
}
