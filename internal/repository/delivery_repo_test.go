package repository

import (
	"testing"

	"github.com/DovranA/zara-app/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUserAndProduct(t *testing.T, users UserRepository, products ProductRepository) (int64, int64) {
	t.Helper()
	userID, err := users.Create(&model.User{Name: "Recipient"})
	require.NoError(t, err)
	productID, err := products.Create(&model.Product{Name: "Crate", Price: 10})
	require.NoError(t, err)
	return userID, productID
}

func TestDeliveryFindAllSortedByDateDesc(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	repo := NewDeliveryRepo(db)

	userID, err := users.Create(&model.User{Name: "Recipient"})
	require.NoError(t, err)

	for _, date := range []string{"2026-01-05", "2026-03-01", "2026-02-10"} {
		_, err := repo.Create(&model.Delivery{UserID: userID, Date: date})
		require.NoError(t, err)
	}

	deliveries, err := repo.FindAll()
	require.NoError(t, err)
	require.Len(t, deliveries, 3)
	assert.Equal(t, "2026-03-01", deliveries[0].Date)
	assert.Equal(t, "2026-02-10", deliveries[1].Date)
	assert.Equal(t, "2026-01-05", deliveries[2].Date)
}

func TestCreateWithItemsPersistsAllRows(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	products := NewProductRepo(db)
	repo := NewDeliveryRepo(db)
	items := NewDeliveryItemRepo(db)

	userID, productID := seedUserAndProduct(t, users, products)

	id, err := repo.CreateWithItems(
		&model.Delivery{UserID: userID, Date: "2026-04-01", TotalAmount: 25},
		[]model.DeliveryItem{
			{ProductID: productID, Quantity: 2, UnitPrice: 10},
			{ProductID: productID, Quantity: 1, UnitPrice: 5},
		},
	)
	require.NoError(t, err)

	lines, err := items.FindByDelivery(id)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, id, lines[0].DeliveryID)

	delivery, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, delivery.Status)
}

func TestCreateWithItemsRollsBackOnBadItem(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	products := NewProductRepo(db)
	repo := NewDeliveryRepo(db)

	userID, productID := seedUserAndProduct(t, users, products)

	// Second item violates the product FK, so the delivery row must not
	// survive either.
	_, err := repo.CreateWithItems(
		&model.Delivery{UserID: userID, Date: "2026-04-01"},
		[]model.DeliveryItem{
			{ProductID: productID, Quantity: 1, UnitPrice: 10},
			{ProductID: 99999, Quantity: 1, UnitPrice: 5},
		},
	)
	require.Error(t, err)

	deliveries, err := repo.FindAll()
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

func TestTotalAmountIsASnapshot(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	products := NewProductRepo(db)
	repo := NewDeliveryRepo(db)

	userID, productID := seedUserAndProduct(t, users, products)

	id, err := repo.CreateWithItems(
		&model.Delivery{UserID: userID, Date: "2026-04-01", TotalAmount: 25},
		[]model.DeliveryItem{
			{ProductID: productID, Quantity: 2, UnitPrice: 10},
			{ProductID: productID, Quantity: 1, UnitPrice: 5},
		},
	)
	require.NoError(t, err)

	// Live price changes must not move the persisted total.
	require.NoError(t, products.Update(&model.Product{ID: productID, Name: "Crate", Price: 99}))

	delivery, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Equal(t, 25.0, delivery.TotalAmount)
}

func TestDeliveryDeleteRemovesItems(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	products := NewProductRepo(db)
	repo := NewDeliveryRepo(db)
	items := NewDeliveryItemRepo(db)

	userID, productID := seedUserAndProduct(t, users, products)
	id, err := repo.CreateWithItems(
		&model.Delivery{UserID: userID, Date: "2026-04-01"},
		[]model.DeliveryItem{{ProductID: productID, Quantity: 1, UnitPrice: 10}},
	)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(id))

	delivery, err := repo.FindByID(id)
	require.NoError(t, err)
	assert.Nil(t, delivery)

	lines, err := items.FindByDelivery(id)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDeliveryStatusAggregates(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepo(db)
	repo := NewDeliveryRepo(db)

	userID, err := users.Create(&model.User{Name: "Recipient"})
	require.NoError(t, err)

	_, err = repo.Create(&model.Delivery{UserID: userID, Date: "2026-01-01", TotalAmount: 10})
	require.NoError(t, err)
	_, err = repo.Create(&model.Delivery{UserID: userID, Date: "2026-01-02", Status: model.StatusDelivered, TotalAmount: 40})
	require.NoError(t, err)

	pending, err := repo.CountByStatus(model.StatusPending)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pending)

	total, err := repo.DeliveredTotal()
	require.NoError(t, err)
	assert.Equal(t, 40.0, total)
}
