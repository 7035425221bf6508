package dataset

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

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadTransactions(t *testing.T) {
	loader := NewLoader(slog.Default())
	dir := t.TempDir()

	path := writeFile(t, dir, "tx.csv",
		"State,Year,Quarter,Category,Count,Amount\n"+
			"karnataka,2023,1,Recharge & bill payments,1200,45000.50\n"+
			"karnataka,2023,Q2,Peer-to-peer payments,800,91000\n")

	rows, err := loader.LoadTransactions(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "karnataka", rows[0].State)
	assert.Equal(t, 2023, rows[0].Year)
	assert.Equal(t, 1, rows[0].Quarter)
	assert.Equal(t, "Recharge & bill payments", rows[0].Category)
	assert.Equal(t, int64(1200), rows[0].Count)
	assert.Equal(t, 45000.50, rows[0].Amount)

	// "Q2" style quarters are normalized
	assert.Equal(t, 2, rows[1].Quarter)
}

func TestLoader_LoadTransactions_Errors(t *testing.T) {
	loader := NewLoader(slog.Default())
	dir := t.TempDir()
	ctx := context.Background()

	t.Run("missing file", func(t *testing.T) {
		_, err := loader.LoadTransactions(ctx, filepath.Join(dir, "missing.csv"))
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeDataset))
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, dir, "empty.csv", "")
		_, err := loader.LoadTransactions(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeDataset))
	})

	t.Run("non-numeric count", func(t *testing.T) {
		path := writeFile(t, dir, "badcount.csv",
			"State,Year,Quarter,Category,Count,Amount\n"+
				"karnataka,2023,1,Recharge,abc,100\n")
		_, err := loader.LoadTransactions(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})

	t.Run("quarter out of range fails validation", func(t *testing.T) {
		path := writeFile(t, dir, "badquarter.csv",
			"State,Year,Quarter,Category,Count,Amount\n"+
				"karnataka,2023,5,Recharge,10,100\n")
		_, err := loader.LoadTransactions(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeValidation))
	})

	t.Run("too few columns", func(t *testing.T) {
		path := writeFile(t, dir, "short.csv",
			"State,Year,Quarter\n"+
				"karnataka,2023,1\n")
		_, err := loader.LoadTransactions(ctx, path)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrTypeParsing))
	})
}

func TestLoader_LoadDevices(t *testing.T) {
	loader := NewLoader(slog.Default())
	dir := t.TempDir()

	path := writeFile(t, dir, "devices.csv",
		"State,Year,Quarter,Brand,RegisteredUsers,PercentageUsage\n"+
			"kerala,2023,1,Xiaomi,50000,0.25\n"+
			"kerala,2023,1,Samsung,40000,0.20\n")

	rows, err := loader.LoadDevices(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Xiaomi", rows[0].Brand)
	assert.Equal(t, int64(50000), rows[0].RegisteredUsers)
	assert.Equal(t, 0.25, rows[0].PercentageUsage)
}

func TestLoader_LoadInsurance(t *testing.T) {
	loader := NewLoader(slog.Default())
	dir := t.TempDir()

	path := writeFile(t, dir, "insurance.csv",
		"State,Year,Quarter,PolicyCount,PolicyValue\n"+
			"goa,2024,3,150,230000.75\n")

	rows, err := loader.LoadInsurance(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "goa", rows[0].State)
	assert.Equal(t, int64(150), rows[0].PolicyCount)
	assert.Equal(t, 230000.75, rows[0].PolicyValue)
}

func TestLoader_LoadEngagement(t *testing.T) {
	loader := NewLoader(slog.Default())
	dir := t.TempDir()

	path := writeFile(t, dir, "engagement.csv",
		"State,Year,Quarter,RegisteredUsers,AppOpens\n"+
			"assam,2023,4,10000,250000\n")

	rows, err := loader.LoadEngagement(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(250000), rows[0].AppOpens)
}

func TestLoader_LoadAll(t *testing.T) {
	loader := NewLoader(slog.Default())
	dir := t.TempDir()

	writeFile(t, dir, "aggregated_transactions.csv",
		"State,Year,Quarter,Category,Count,Amount\n"+
			"karnataka,2023,1,Recharge,1200,45000\n")
	writeFile(t, dir, "device_registrations.csv",
		"State,Year,Quarter,Brand,RegisteredUsers,PercentageUsage\n"+
			"karnataka,2023,1,Xiaomi,50000,0.25\n")
	writeFile(t, dir, "insurance.csv",
		"State,Year,Quarter,PolicyCount,PolicyValue\n"+
			"karnataka,2023,1,150,230000\n")
	writeFile(t, dir, "app_engagement.csv",
		"State,Year,Quarter,RegisteredUsers,AppOpens\n"+
			"karnataka,2023,1,10000,250000\n")

	cfg := config.Default()
	cfg.Dataset.Dir = dir

	ds, err := loader.LoadAll(context.Background(), cfg)
	require.NoError(t, err)
	assert.False(t, ds.IsEmpty())
	assert.Len(t, ds.Transactions, 1)
	assert.Len(t, ds.Devices, 1)
	assert.Len(t, ds.Insurance, 1)
	assert.Len(t, ds.Engagement, 1)
}

func TestLoader_LoadAll_MissingFile(t *testing.T) {
	loader := NewLoader(slog.Default())

	cfg := config.Default()
	cfg.Dataset.Dir = t.TempDir()

	_, err := loader.LoadAll(context.Background(), cfg)
	require.Error(t, err)
}
