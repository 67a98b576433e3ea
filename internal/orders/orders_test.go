package orders

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConf(t *testing.T) (Conf, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	conf, err := NewConf(db)
	require.NoError(t, err)
	return conf, mock
}

func TestPlaceOrderReservesStockPerLine(t *testing.T) {
	conf, mock := newMockConf(t)

	no := validNewOrder()
	no.CartItems = []NewOrderItem{
		{ID: 1, Name: "Notebook", Quantity: 2, Price: 45.50},
		{ID: 2, Name: "Crayons", Quantity: 1, Price: 120.00},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(2, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO ordered_products`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(1, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO ordered_products`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	placed, err := conf.PlaceOrder(context.Background(), 42, no)
	require.NoError(t, err)

	assert.Equal(t, int64(7), placed.OrderID)
	assert.Len(t, placed.TrackingNumber, 16)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	conf, mock := newMockConf(t)

	no := validNewOrder()
	no.CartItems = []NewOrderItem{
		{ID: 1, Name: "Notebook", Quantity: 2, Price: 45.50},
		{ID: 2, Name: "Crayons", Quantity: 9, Price: 120.00},
	}

	// The first line reserves fine; the second finds too little stock. The
	// whole transaction must roll back so neither order nor reservation stays.
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(2, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO ordered_products`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(9, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	placed, err := conf.PlaceOrder(context.Background(), 42, no)

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Crayons", stockErr.Product)
	assert.Zero(t, placed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrderRestocksEveryLine(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT product_id, quantity`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(5, 2).
			AddRow(9, 1))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(2, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(1, int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, conf.CancelOrder(context.Background(), 7, 42))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelOrderNotCancellable(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := conf.CancelOrder(context.Background(), 7, 42)

	assert.ErrorIs(t, err, ErrNotCancellable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestReturnRestocksResellableReason(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_feedback`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT product_id, quantity`).
		WillReturnRows(sqlmock.NewRows([]string{"product_id", "quantity"}).
			AddRow(3, 4))
	mock.ExpectExec(`UPDATE product_stocks`).
		WithArgs(4, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := conf.RequestReturn(context.Background(), 7, 42, []string{"wrong_item"}, "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestReturnSkipsRestockForUnsellableReasons(t *testing.T) {
	conf, mock := newMockConf(t)

	// Defective and incomplete goods cannot go back on the shelf, so no
	// stock update may run.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_feedback`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := conf.RequestReturn(context.Background(), 7, 42, []string{"defective", "incomplete"}, "arrived broken")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestReturnNotReturnable(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := conf.RequestReturn(context.Background(), 7, 42, []string{"wrong_item"}, "")

	assert.ErrorIs(t, err, ErrNotReturnable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRatingsHappyPath(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT is_rated`).
		WillReturnRows(sqlmock.NewRows([]string{"is_rated"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO product_ratings`).
		WithArgs(int64(7), int64(3), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO order_feedback`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := conf.SubmitRatings(context.Background(), 7, 42, map[int64]int{3: 5}, "great quality")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRatingsAlreadyRated(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT is_rated`).
		WillReturnRows(sqlmock.NewRows([]string{"is_rated"}).AddRow(true))
	mock.ExpectRollback()

	err := conf.SubmitRatings(context.Background(), 7, 42, map[int64]int{3: 5}, "")

	assert.ErrorIs(t, err, ErrAlreadyRated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRatingsNotOwned(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT is_rated`).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := conf.SubmitRatings(context.Background(), 7, 42, map[int64]int{3: 5}, "")

	assert.ErrorIs(t, err, ErrNotOwned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitRatingsRejectsOutOfRangeRating(t *testing.T) {
	conf, _ := newMockConf(t)

	err := conf.SubmitRatings(context.Background(), 7, 42, map[int64]int{3: 6}, "")
	assert.Error(t, err)
}

func TestUpdateStatusRejectsNonStaffTarget(t *testing.T) {
	conf, _ := newMockConf(t)

	err := conf.UpdateStatus(context.Background(), 7, StatusReceived)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatusAdvancesFromPredecessor(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, conf.UpdateStatus(context.Background(), 7, StatusShipped))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusNoMatchingPredecessor(t *testing.T) {
	conf, mock := newMockConf(t)

	mock.ExpectExec(`UPDATE orders`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := conf.UpdateStatus(context.Background(), 7, StatusShipped)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.NoError(t, mock.ExpectationsWereMet())
}
