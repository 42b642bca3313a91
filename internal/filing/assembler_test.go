package filing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/thirteenf/internal/models"
)

func assemble(t *testing.T, lines ...string) []models.FilingRecord {
	t.Helper()
	records, err := Assemble(Tokenize(lines), AssembleOptions{})
	require.NoError(t, err)
	return records
}

func TestAssemble_SingleRecord(t *testing.T) {
	records := assemble(t, "ABC123 XY 1", "Acme Corp", "Common Stock", "STATUS: ADDED")

	require.Len(t, records, 1)
	assert.Equal(t, models.FilingRecord{
		Identifier:        "ABC123XY1",
		IssuerName:        "Acme Corp",
		IssuerDescription: "Common Stock",
		Status:            models.FilingStatusAdded,
	}, records[0])
}

func TestAssemble_NoBoundaries(t *testing.T) {
	records := assemble(t, "OFFICIAL LIST OF SECTION 13(f) SECURITIES", "Run Date: 9/30/2026", "Page 1")
	assert.Empty(t, records)
}

func TestAssemble_MissingStatusToken(t *testing.T) {
	records := assemble(t, "ABC123 XY 1", "Acme Corp", "COM", "unchanged")

	require.Len(t, records, 1)
	assert.Equal(t, models.FilingStatusNone, records[0].Status)
}

func TestAssemble_DeletedStatus(t *testing.T) {
	records := assemble(t, "ABC123 XY 1", "Acme Corp", "COM", "DELETED")

	require.Len(t, records, 1)
	assert.Equal(t, models.FilingStatusDeleted, records[0].Status)
}

func TestAssemble_ConsecutiveBoundaries(t *testing.T) {
	records := assemble(t, "ABC123 XY 1", "DEF456 ZZ 9", "Beta Inc", "PUT")

	require.Len(t, records, 2)
	assert.Equal(t, models.FilingRecord{Identifier: "ABC123XY1"}, records[0])
	assert.Equal(t, "DEF456ZZ9", records[1].Identifier)
	assert.Equal(t, "Beta Inc", records[1].IssuerName)
	assert.Equal(t, "PUT", records[1].IssuerDescription)
}

func TestAssemble_IgnoresLinesBeyondStatus(t *testing.T) {
	records := assemble(t,
		"ABC123 XY 1", "Acme Corp", "COM", "ADDED", "footnote one", "footnote two",
		"DEF456 ZZ 9", "Beta Inc", "CALL", "",
	)

	require.Len(t, records, 2)
	assert.Equal(t, "Acme Corp", records[0].IssuerName)
	assert.Equal(t, "COM", records[0].IssuerDescription)
	assert.Equal(t, models.FilingStatusAdded, records[0].Status)
	assert.Equal(t, "CALL", records[1].IssuerDescription)
	assert.Equal(t, models.FilingStatusNone, records[1].Status)
}

func TestAssemble_LinesBeforeFirstBoundaryIgnored(t *testing.T) {
	records := assemble(t, "preamble", "more preamble", "ABC123 XY 1", "Acme Corp")

	require.Len(t, records, 1)
	assert.Equal(t, "Acme Corp", records[0].IssuerName)
}

func TestAssemble_StrictRejectsTruncatedRecord(t *testing.T) {
	_, err := Assemble(Tokenize([]string{"ABC123 XY 1", "Acme Corp", "DEF456 ZZ 9", "Beta Inc", "COM"}), AssembleOptions{Strict: true})

	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrParseAmbiguity))
	assert.Contains(t, err.Error(), "ABC123XY1")
}

func TestAssemble_StrictAcceptsCompleteRecords(t *testing.T) {
	records, err := Assemble(Tokenize([]string{"ABC123 XY 1", "Acme Corp", "COM", "DEF456 ZZ 9", "Beta Inc", "COM"}), AssembleOptions{Strict: true})

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestMerge_PassThroughWhenIdentified(t *testing.T) {
	in := []models.FilingRecord{
		{Identifier: "ABC123XY1", IssuerName: "Acme Corp", IssuerDescription: "COM", Status: models.FilingStatusAdded},
		{Identifier: "DEF456ZZ9", IssuerName: "Beta Inc"},
	}
	assert.Equal(t, in, Merge(in))
}

func TestMerge_FoldsFragments(t *testing.T) {
	in := []models.FilingRecord{
		{IssuerName: "Acme Corp"},
		{IssuerDescription: "COM", Status: models.FilingStatusDeleted},
		{Identifier: "ABC123XY1"},
		{IssuerName: "orphan"},
	}

	out := Merge(in)

	require.Len(t, out, 1)
	assert.Equal(t, models.FilingRecord{
		Identifier:        "ABC123XY1",
		IssuerName:        "Acme Corp",
		IssuerDescription: "COM",
		Status:            models.FilingStatusDeleted,
	}, out[0])
}

func TestMerge_AccumulatorResetsBetweenRecords(t *testing.T) {
	out := Merge([]models.FilingRecord{
		{Identifier: "ABC123XY1", IssuerName: "Acme Corp"},
		{Identifier: "DEF456ZZ9"},
	})

	require.Len(t, out, 2)
	assert.Empty(t, out[1].IssuerName)
}
