package services

import (
	"testing"

	"github.com/stonescan/stonescan-be/internal/models"
	"github.com/stonescan/stonescan-be/internal/storage"
	"github.com/stretchr/testify/require"
)

func newReportService(t *testing.T) (*ReportService, storage.Store) {
	t.Helper()
	store := storage.NewFileStore(t.TempDir())
	return NewReportService(store, NewEventService(store, nil)), store
}

func TestListReportsEmpty(t *testing.T) {
	t.Parallel()
	svc, _ := newReportService(t)

	reports, err := svc.ListReports("alice@example.com")
	require.NoError(t, err)
	require.Empty(t, reports)
	require.NotNil(t, reports)
}

func TestAddAndListReports(t *testing.T) {
	t.Parallel()
	svc, _ := newReportService(t)

	added, err := svc.AddReport("alice@example.com", "r1", models.Prediction{Label: "stone", Confidence: 0.93}, "2024-01-01")
	require.NoError(t, err)
	require.NotEmpty(t, added.ID)

	second, err := svc.AddReport("alice@example.com", "r2", models.Prediction{Label: "non-stone"}, "2024-01-02")
	require.NoError(t, err)
	require.NotEqual(t, added.ID, second.ID)

	reports, err := svc.ListReports("alice@example.com")
	require.NoError(t, err)
	require.Len(t, reports, 2)

	// Insertion order is preserved.
	require.Equal(t, "r1", reports[0].Name)
	require.Equal(t, "stone", reports[0].Prediction.Label)
	require.Equal(t, "2024-01-01", reports[0].CreatedAt)
	require.Equal(t, "r2", reports[1].Name)
}

func TestReportsAreScopedToOwner(t *testing.T) {
	t.Parallel()
	svc, _ := newReportService(t)

	_, err := svc.AddReport("alice@example.com", "r1", models.Prediction{Label: "stone"}, "2024-01-01")
	require.NoError(t, err)

	reports, err := svc.ListReports("bob@example.com")
	require.NoError(t, err)
	require.Empty(t, reports)
}

func TestDeleteReport(t *testing.T) {
	t.Parallel()
	svc, _ := newReportService(t)

	kept, err := svc.AddReport("alice@example.com", "keep", models.Prediction{Label: "stone"}, "2024-01-01")
	require.NoError(t, err)
	doomed, err := svc.AddReport("alice@example.com", "doomed", models.Prediction{Label: "stone"}, "2024-01-02")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReport("alice@example.com", doomed.ID))

	reports, err := svc.ListReports("alice@example.com")
	require.NoError(t, err)
	require.Len(t, reports, 1)
	require.Equal(t, kept.ID, reports[0].ID)
}

func TestDeleteReportAbsentIDIsNoop(t *testing.T) {
	t.Parallel()
	svc, _ := newReportService(t)

	_, err := svc.AddReport("alice@example.com", "r1", models.Prediction{Label: "stone"}, "2024-01-01")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReport("alice@example.com", "no-such-id"))

	reports, err := svc.ListReports("alice@example.com")
	require.NoError(t, err)
	require.Len(t, reports, 1)
}

func TestDeleteReportMissingStore(t *testing.T) {
	t.Parallel()
	svc, _ := newReportService(t)

	require.ErrorIs(t, svc.DeleteReport("alice@example.com", "any"), ErrReportStoreMissing)
}
