package services

import (
	"fmt"
	"strconv"
	"strings"

	"inmocrm/internal/models"
)

// Lead codes look like LEAD-2026-00042: sequential within a calendar
// year, derived from the highest stored code for that year. Uniqueness
// is backstopped by a unique index on leads.code; on conflict the
// service re-reads and retries once.

const leadCodePrefix = "LEAD"

// NextLeadCode builds the code following lastCode for the given year.
// An empty or foreign-year lastCode starts the sequence at 1.
func NextLeadCode(year int, lastCode string) string {
	seq := 1
	if n, ok := parseLeadCode(year, lastCode); ok {
		seq = n + 1
	}
	return fmt.Sprintf("%s-%d-%05d", leadCodePrefix, year, seq)
}

// parseLeadCode extracts the sequence number of a code belonging to the
// given year.
func parseLeadCode(year int, code string) (int, bool) {
	parts := strings.Split(code, "-")
	if len(parts) != 3 || parts[0] != leadCodePrefix {
		return 0, false
	}
	if y, err := strconv.Atoi(parts[1]); err != nil || y != year {
		return 0, false
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// ClientPseudoCode is the deterministic placeholder code used when a
// client record stands in for a lead (bulk imports, walk-ins captured
// before intake). Pure function of the stored client.
func ClientPseudoCode(client *models.Client) string {
	doc := strings.ToUpper(strings.TrimSpace(client.DocumentID))
	if len(doc) > 4 {
		doc = doc[len(doc)-4:]
	}
	if doc == "" {
		doc = "XXXX"
	}
	return fmt.Sprintf("CLI-%06d-%s", client.ID, doc)
}
