package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"inmocrm/internal/models"
)

func TestNextLeadCode(t *testing.T) {
	require.Equal(t, "LEAD-2026-00001", NextLeadCode(2026, ""))
	require.Equal(t, "LEAD-2026-00042", NextLeadCode(2026, "LEAD-2026-00041"))
	require.Equal(t, "LEAD-2026-100000", NextLeadCode(2026, "LEAD-2026-99999"))
}

func TestNextLeadCodeRestartsEachYear(t *testing.T) {
	// the previous year's maximum does not carry over
	require.Equal(t, "LEAD-2027-00001", NextLeadCode(2027, "LEAD-2026-00917"))
}

func TestNextLeadCodeIgnoresMalformedCodes(t *testing.T) {
	for _, bad := range []string{"LEAD-2026", "DEAL-2026-00005", "LEAD-x-00005", "LEAD-2026-abc", "LEAD-2026-00000"} {
		require.Equal(t, "LEAD-2026-00001", NextLeadCode(2026, bad), "input %q", bad)
	}
}

func TestClientPseudoCode(t *testing.T) {
	c := &models.Client{ID: 7, DocumentID: "45678912"}
	require.Equal(t, "CLI-000007-8912", ClientPseudoCode(c))

	short := &models.Client{ID: 12, DocumentID: "ab1"}
	require.Equal(t, "CLI-000012-AB1", ClientPseudoCode(short))

	missing := &models.Client{ID: 3}
	require.Equal(t, "CLI-000003-XXXX", ClientPseudoCode(missing))
}
