package registrars

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tldpricer/tldpricer-backend/pkg/db/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Registrar{}))
	return conn
}

func TestListLatestOrdersByRecency(t *testing.T) {
	conn := newTestDB(t)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	fee := decimal.RequireFromString("0.18")
	regs := []models.Registrar{
		{ID: 1, Name: "Alpha Domains", ICANNFee: fee, CreatedAt: base},
		{ID: 2, Name: "Beta Registry", ICANNFee: fee, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 3, Name: "Gamma Names", ICANNFee: fee, CreatedAt: base.Add(time.Hour)},
	}
	require.NoError(t, conn.Create(&regs).Error)

	repo := NewRepository(conn)
	latest, err := repo.ListLatest(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	require.Equal(t, "Beta Registry", latest[0].Name)
	require.Equal(t, "Gamma Names", latest[1].Name)
}

type stubReader struct {
	rows []models.Registrar
	err  error
}

func (s *stubReader) ListLatest(context.Context, int) ([]models.Registrar, error) {
	return s.rows, s.err
}

func TestLatestMapsRows(t *testing.T) {
	fee := decimal.RequireFromString("0.18")
	svc, err := NewService(&stubReader{rows: []models.Registrar{{ID: 1, Name: "Alpha Domains", ICANNFee: fee}}})
	require.NoError(t, err)

	list, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Alpha Domains", list[0].Name)
	require.True(t, list[0].ICANNFee.Equal(fee))
}

func TestLatestWrapsStoreFailure(t *testing.T) {
	svc, err := NewService(&stubReader{err: context.DeadlineExceeded})
	require.NoError(t, err)

	_, err = svc.Latest(context.Background())
	require.Error(t, err)
}
