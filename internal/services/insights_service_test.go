package services

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsecli/internal/config"
	"pulsecli/internal/errors"
)

func writeDataset(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"aggregated_transactions.csv": "State,Year,Quarter,Category,Count,Amount\n" +
			"kerala,2023,4,Recharge,100,1000\n" +
			"kerala,2024,1,Recharge,150,1500\n" +
			"assam,2024,1,Recharge,40,400\n",
		"device_registrations.csv": "State,Year,Quarter,Brand,RegisteredUsers,PercentageUsage\n" +
			"kerala,2023,4,Xiaomi,500,0.25\n" +
			"kerala,2023,4,Samsung,700,0.30\n",
		"insurance.csv": "State,Year,Quarter,PolicyCount,PolicyValue\n" +
			"kerala,2023,4,150,230000\n",
		"app_engagement.csv": "State,Year,Quarter,RegisteredUsers,AppOpens\n" +
			"kerala,2023,4,1000,25000\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	cfg := config.Default()
	cfg.Dataset.Dir = dir
	return cfg
}

func TestInsightsService_Reports(t *testing.T) {
	ctx := context.Background()
	svc := NewInsightsService(writeDataset(t), slog.Default())

	t.Run("transaction dynamics", func(t *testing.T) {
		rows, err := svc.TransactionDynamics(ctx)
		require.NoError(t, err)
		assert.Len(t, rows, 3)
	})

	t.Run("category trends", func(t *testing.T) {
		rows, err := svc.CategoryTrends(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Recharge", rows[0].Category)
	})

	t.Run("device dominance", func(t *testing.T) {
		rows, err := svc.DeviceDominance(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Samsung", rows[0].Brand)
	})

	t.Run("insurance penetration", func(t *testing.T) {
		rows, err := svc.InsurancePenetration(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int64(150), rows[0].PoliciesSold)
	})

	t.Run("user engagement", func(t *testing.T) {
		rows, err := svc.UserEngagement(ctx)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, 25.0, rows[0].OpensPerUser)
	})

	t.Run("all reports", func(t *testing.T) {
		reports, err := svc.AllReports(ctx)
		require.NoError(t, err)
		assert.Len(t, reports.Growth, 3)
	})
}

func TestInsightsService_MarketExpansion(t *testing.T) {
	ctx := context.Background()
	svc := NewInsightsService(writeDataset(t), slog.Default())

	t.Run("unfiltered", func(t *testing.T) {
		records, err := svc.MarketExpansion(ctx, GrowthFilter{})
		require.NoError(t, err)
		require.Len(t, records, 3)

		// kerala 2024-Q1 grew 50% over 2023-Q4 and sorts first.
		assert.Equal(t, "kerala", records[0].EntityKey)
		require.NotNil(t, records[0].PercentGrowth)
		assert.Equal(t, 50.0, *records[0].PercentGrowth)
	})

	t.Run("filter by state", func(t *testing.T) {
		records, err := svc.MarketExpansion(ctx, GrowthFilter{State: "assam"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "assam", records[0].EntityKey)
		assert.Nil(t, records[0].PercentGrowth)
	})

	t.Run("filter by period", func(t *testing.T) {
		records, err := svc.MarketExpansion(ctx, GrowthFilter{Year: 2024, Quarter: 1})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("filtering does not break previous-quarter lookup", func(t *testing.T) {
		records, err := svc.MarketExpansion(ctx, GrowthFilter{State: "kerala", Year: 2024})
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.NotNil(t, records[0].PreviousValue)
		assert.Equal(t, 100.0, *records[0].PreviousValue)
	})

	t.Run("invalid quarter filter", func(t *testing.T) {
		_, err := svc.MarketExpansion(ctx, GrowthFilter{Quarter: 7})
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	})
}

func TestInsightsService_Refresh(t *testing.T) {
	ctx := context.Background()
	cfg := writeDataset(t)
	svc := NewInsightsService(cfg, slog.Default())

	rows, err := svc.TransactionDynamics(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Replace the transactions file and refresh; the new data must be
	// visible afterwards.
	path := cfg.DatasetPath(cfg.Dataset.TransactionsFile)
	require.NoError(t, os.WriteFile(path, []byte(
		"State,Year,Quarter,Category,Count,Amount\n"+
			"kerala,2024,2,Recharge,10,100\n"), 0644))

	// Cache still serves the old data until refreshed.
	rows, err = svc.TransactionDynamics(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	svc.Refresh(ctx)
	rows, err = svc.TransactionDynamics(ctx)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestHealthService(t *testing.T) {
	cfg := writeDataset(t)
	svc := NewHealthService("v1.0.0-test", cfg, slog.Default())

	status := svc.HealthCheck(context.Background())
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "v1.0.0-test", status.Version)
	assert.Equal(t, "ok", status.Services["dataset"].(map[string]interface{})["transactions"])

	ready := svc.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", ready.Status)

	cfg.Dataset.Dir = filepath.Join(cfg.Dataset.Dir, "missing")
	ready = svc.ReadinessCheck(context.Background())
	assert.Equal(t, "not_ready", ready.Status)
}
