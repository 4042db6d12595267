package internal

import (
	"regexp"
	"strings"
)

// RawCommit is a commit as read from history, before parsing.
type RawCommit struct {
	Hash    string `json:"hash"`
	Message string `json:"message"`
}

// CommitRecord is a commit parsed against the conventional commit grammar.
// Type is empty when the header does not match.
type CommitRecord struct {
	Hash          string   `json:"hash"`
	Subject       string   `json:"subject"`
	Type          string   `json:"type,omitempty"`
	Scope         string   `json:"scope,omitempty"`
	BreakingNotes []string `json:"breaking_notes,omitempty"`
}

func (c CommitRecord) Breaking() bool {
	return len(c.BreakingNotes) > 0
}

var (
	headerPattern   = regexp.MustCompile(`^(\w*)(?:\(([^()]*)\))?(!)?: (.*)$`)
	breakingPattern = regexp.MustCompile(`^[\s|*]*(BREAKING CHANGES?)[:\s]+(.*)$`)
)

// ParseCommit parses the header and breaking-change footers of a commit
// message. It returns false when the header is not a conventional header.
func ParseCommit(raw RawCommit) (CommitRecord, bool) {
	lines := strings.Split(strings.ReplaceAll(raw.Message, "\r\n", "\n"), "\n")
	header := strings.TrimSpace(lines[0])

	m := headerPattern.FindStringSubmatch(header)
	if m == nil || m[1] == "" {
		return CommitRecord{Hash: raw.Hash, Subject: header}, false
	}

	rec := CommitRecord{
		Hash:    raw.Hash,
		Type:    strings.ToLower(m[1]),
		Scope:   m[2],
		Subject: m[4],
	}
	if m[3] == "!" {
		rec.BreakingNotes = append(rec.BreakingNotes, rec.Subject)
	}
	rec.BreakingNotes = append(rec.BreakingNotes, parseBreakingNotes(lines[1:])...)

	return rec, true
}

// parseBreakingNotes collects BREAKING CHANGE footers. A note continues over
// the following lines until a blank line or the next footer.
func parseBreakingNotes(body []string) []string {
	var notes []string
	var current []string
	inNote := false

	flush := func() {
		if inNote {
			notes = append(notes, strings.TrimSpace(strings.Join(current, "\n")))
		}
		current = nil
		inNote = false
	}

	for _, line := range body {
		if m := breakingPattern.FindStringSubmatch(line); m != nil {
			flush()
			inNote = true
			current = append(current, m[2])
			continue
		}
		if !inNote {
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return notes
}

// ParseCommits parses every commit and drops those that are not conventional.
func ParseCommits(raws []RawCommit) []CommitRecord {
	records := make([]CommitRecord, 0, len(raws))
	for _, raw := range raws {
		if rec, ok := ParseCommit(raw); ok {
			records = append(records, rec)
		}
	}
	return records
}
