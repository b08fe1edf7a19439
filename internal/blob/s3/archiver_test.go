package s3blob

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathiasanobre/bot-telegram/internal/domain"
)

func TestRunPathPartitionsByUTCDate(t *testing.T) {
	runAt := time.Date(2026, 8, 30, 23, 30, 0, 0, time.FixedZone("BRT", -3*3600))

	// 23:30 BRT is already Aug 31 in UTC.
	path := runPath(runAt)
	assert.Equal(t, "opportunities/2026/08/31/run-1788143400.jsonl", path)
}

func TestMarshalJSONLOneLinePerRecord(t *testing.T) {
	opps := []domain.Opportunity{
		{ID: "opp-1", Outcome: "Flamengo"},
		{ID: "opp-2", Outcome: "Santos"},
	}

	buf, err := marshalJSONL(opps)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimRight(buf, "\n"), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"id":"opp-1"`)
	assert.Contains(t, string(lines[1]), `"id":"opp-2"`)
}

func TestArchiveRunEmptySetSkipsUpload(t *testing.T) {
	a := NewRunArchiver(nil)

	path, err := a.ArchiveRun(context.Background(), time.Now(), nil)
	require.NoError(t, err)
	assert.Empty(t, path)
}
