package pricing

import (
	"context"
	"fmt"
	"sort"
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

	require.NoError(t, conn.AutoMigrate(
		&models.Extension{}, &models.Registrar{}, &models.PriceRow{}, &models.Promotion{},
	))
	return conn
}

func seedCatalog(t *testing.T, conn *gorm.DB) {
	t.Helper()
	exts := []models.Extension{
		{ID: 1, Name: ".com"},
		{ID: 2, Name: ".net"},
		{ID: 3, Name: ".org"},
	}
	regs := []models.Registrar{
		{ID: 1, Name: "Alpha Domains", ICANNFee: dec("0.18")},
		{ID: 2, Name: "Beta Registry", ICANNFee: dec("0.18")},
		{ID: 3, Name: "Gamma Names", ICANNFee: dec("0.18")},
	}
	require.NoError(t, conn.Create(&exts).Error)
	require.NoError(t, conn.Create(&regs).Error)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func price(id, regID, extID int64, reg string, at time.Time) models.PriceRow {
	return models.PriceRow{
		ID:                id,
		RegistrarID:       regID,
		ExtensionID:       extID,
		RegistrationPrice: dec(reg),
		RenewalPrice:      dec(reg).Add(dec("2.00")),
		TransferPrice:     dec(reg).Add(dec("1.00")),
		CreatedAt:         at,
		UpdatedAt:         at,
	}
}

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestListCurrentKeepsLatestRowPerPair(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	rows := []models.PriceRow{
		price(1, 1, 1, "12.00", baseTime),
		price(2, 1, 1, "9.99", baseTime.Add(time.Hour)), // supersedes row 1
		price(3, 2, 1, "10.50", baseTime),
		price(4, 1, 2, "13.25", baseTime),
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)
	got, err := repo.ListCurrent(context.Background(), ListPricesInput{
		Page: 1, Limit: 20, SortBy: SortByRegistrar, SortOrder: SortAsc,
	})
	require.NoError(t, err)

	require.EqualValues(t, 3, got.TotalCount)
	require.Len(t, got.Rows, 3)

	byPair := map[PairKey]CurrentPriceRow{}
	for _, row := range got.Rows {
		byPair[PairKey{row.RegistrarID, row.ExtensionID}] = row
	}
	current := byPair[PairKey{1, 1}]
	require.EqualValues(t, 2, current.ID)
	require.True(t, current.RegistrationPrice.Equal(dec("9.99")))
}

func TestListCurrentBreaksCreatedAtTiesByHighestID(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	rows := []models.PriceRow{
		price(1, 1, 1, "12.00", baseTime),
		price(2, 1, 1, "11.00", baseTime), // same instant, higher id wins
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)
	got, err := repo.ListCurrent(context.Background(), ListPricesInput{
		Page: 1, Limit: 20, SortBy: SortByRegistrar, SortOrder: SortAsc,
	})
	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	require.EqualValues(t, 2, got.Rows[0].ID)
}

func TestListCurrentFilters(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	rows := []models.PriceRow{
		price(1, 1, 1, "9.99", baseTime),
		price(2, 2, 1, "10.50", baseTime),
		price(3, 1, 2, "13.25", baseTime),
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)

	t.Run("registrar substring is case-insensitive", func(t *testing.T) {
		got, err := repo.ListCurrent(context.Background(), ListPricesInput{
			RegistrarContains: "BETA",
			Page:              1, Limit: 20, SortBy: SortByRegistrar, SortOrder: SortAsc,
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, got.TotalCount)
		require.Len(t, got.Rows, 1)
		require.Equal(t, "Beta Registry", got.Rows[0].RegistrarName)
	})

	t.Run("extension name is canonicalized before the exact match", func(t *testing.T) {
		got, err := repo.ListCurrent(context.Background(), ListPricesInput{
			ExtensionName: "NET",
			Page:          1, Limit: 20, SortBy: SortByRegistrar, SortOrder: SortAsc,
		})
		require.NoError(t, err)
		require.EqualValues(t, 1, got.TotalCount)
		require.Equal(t, ".net", got.Rows[0].ExtensionName)
	})

	t.Run("unknown filter values yield an empty page, not an error", func(t *testing.T) {
		got, err := repo.ListCurrent(context.Background(), ListPricesInput{
			RegistrarContains: "nosuchregistrar",
			Page:              1, Limit: 20, SortBy: SortByRegistrar, SortOrder: SortAsc,
		})
		require.NoError(t, err)
		require.EqualValues(t, 0, got.TotalCount)
		require.Empty(t, got.Rows)
	})
}

func TestListCurrentAttachesPromotionsByPair(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	rows := []models.PriceRow{
		price(1, 1, 1, "9.99", baseTime),
		price(2, 2, 2, "10.50", baseTime),
	}
	require.NoError(t, conn.Create(&rows).Error)

	code := "LAUNCH10"
	promos := []models.Promotion{
		{ID: 1, RegistrarID: 1, ExtensionID: 1, Price: dec("4.99"), Type: models.PromoTypeRegistration, Code: &code},
		{ID: 2, RegistrarID: 2, ExtensionID: 2, Price: dec("8.00"), Type: models.PromoTypeRenewal},
		// Pair (1, 2) is inside the cross product of the page's id lists but
		// matches no listed pair; it must not leak onto either row.
		{ID: 3, RegistrarID: 1, ExtensionID: 2, Price: dec("1.00"), Type: models.PromoTypeRegistration},
	}
	require.NoError(t, conn.Create(&promos).Error)

	repo := NewRepository(conn)
	got, err := repo.ListCurrent(context.Background(), ListPricesInput{
		Page: 1, Limit: 20, SortBy: SortByRegistrar, SortOrder: SortAsc,
	})
	require.NoError(t, err)

	require.Len(t, got.Promos[PairKey{1, 1}], 1)
	require.Equal(t, "LAUNCH10", *got.Promos[PairKey{1, 1}][0].Code)
	require.Len(t, got.Promos[PairKey{2, 2}], 1)
	require.Empty(t, got.Promos[PairKey{1, 2}])
}

func TestListCheapestPicksLowestRegistrationPricePerExtension(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	rows := []models.PriceRow{
		price(1, 1, 1, "11.99", baseTime),
		price(2, 2, 1, "8.88", baseTime),
		price(3, 3, 1, "9.77", baseTime),
		price(4, 1, 2, "13.25", baseTime),
		price(5, 2, 2, "13.25", baseTime), // tie, lower id (4) wins
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)
	got, err := repo.ListCheapest(context.Background(), ListCheapestInput{
		Page: 1, Limit: 20, SortBy: CheapestByTLD, SortOrder: SortAsc,
	})
	require.NoError(t, err)

	require.EqualValues(t, 2, got.TotalCount)
	require.Len(t, got.Rows, 2)

	require.Equal(t, ".com", got.Rows[0].ExtensionName)
	require.Equal(t, "Beta Registry", got.Rows[0].RegistrarName)
	require.True(t, got.Rows[0].RegistrationPrice.Equal(dec("8.88")))

	require.Equal(t, ".net", got.Rows[1].ExtensionName)
	require.EqualValues(t, 4, got.Rows[1].ID)
}

func TestListCheapestExtensionContainsFilter(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	rows := []models.PriceRow{
		price(1, 1, 1, "9.99", baseTime),
		price(2, 1, 2, "11.00", baseTime),
		price(3, 1, 3, "10.00", baseTime),
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)
	got, err := repo.ListCheapest(context.Background(), ListCheapestInput{
		ExtensionContains: "O", // .com and .org
		Page:              1, Limit: 20, SortBy: CheapestByTLD, SortOrder: SortAsc,
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, got.TotalCount)
	require.Equal(t, ".com", got.Rows[0].ExtensionName)
	require.Equal(t, ".org", got.Rows[1].ExtensionName)
}

func TestListCurrentSortsAndPaginatesDeterministically(t *testing.T) {
	conn := newTestDB(t)
	seedCatalog(t, conn)

	var rows []models.PriceRow
	id := int64(1)
	for reg := int64(1); reg <= 3; reg++ {
		for ext := int64(1); ext <= 3; ext++ {
			rows = append(rows, price(id, reg, ext, fmt.Sprintf("%d.00", 5+id), baseTime))
			id++
		}
	}
	require.NoError(t, conn.Create(&rows).Error)

	repo := NewRepository(conn)
	in := ListPricesInput{Limit: 4, SortBy: SortByPrice, SortOrder: SortDesc}

	var pages [][]CurrentPriceRow
	var total int64
	for page := 1; ; page++ {
		in.Page = page
		got, err := repo.ListCurrent(context.Background(), in)
		require.NoError(t, err)
		total = got.TotalCount
		if len(got.Rows) == 0 {
			break
		}
		pages = append(pages, got.Rows)
	}

	require.EqualValues(t, 9, total)
	require.Len(t, pages, 3)
	require.Len(t, pages[0], 4)
	require.Len(t, pages[1], 4)
	require.Len(t, pages[2], 1)

	var all []CurrentPriceRow
	for _, p := range pages {
		all = append(all, p...)
	}
	require.Len(t, all, 9)

	seen := map[int64]bool{}
	for _, row := range all {
		require.False(t, seen[row.ID], "row %d appeared on two pages", row.ID)
		seen[row.ID] = true
	}
	require.True(t, sort.SliceIsSorted(all, func(i, j int) bool {
		return all[i].RegistrationPrice.GreaterThan(all[j].RegistrationPrice)
	}))
}
