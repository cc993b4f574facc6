package service

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

func validReview(orderID, userID uint) *SubmitReviewInput {
	return &SubmitReviewInput{
		OrderID: orderID,
		Rating:  5,
		Comment: "great trip",
		UserID:  userID,
	}
}

func TestReviewSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	merchant := seedMerchant(t, db, model.MerchantApproved)
	product := seedProduct(t, db, merchant.ID)
	order := seedOrder(t, db, product, 1)

	review, err := svc.Submit(validReview(order.ID, order.CustomerID))
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, product.ID, review.ProductID)

	// the review is reachable through the product's collection
	var reloaded model.Product
	require.NoError(t, db.Preload("Reviews").First(&reloaded, product.ID).Error)
	require.Len(t, reloaded.Reviews, 1)
	assert.Equal(t, review.ID, reloaded.Reviews[0].ID)
}

func TestReviewSubmitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	merchant := seedMerchant(t, db, model.MerchantApproved)
	product := seedProduct(t, db, merchant.ID)
	order := seedOrder(t, db, product, 1)

	cases := []struct {
		name   string
		mutate func(*SubmitReviewInput)
	}{
		{"rating too low", func(in *SubmitReviewInput) { in.Rating = 0 }},
		{"rating too high", func(in *SubmitReviewInput) { in.Rating = 6 }},
		{"empty comment", func(in *SubmitReviewInput) { in.Comment = "" }},
		{"comment too long", func(in *SubmitReviewInput) { in.Comment = strings.Repeat("x", 1001) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validReview(order.ID, order.CustomerID)
			tc.mutate(in)
			_, err := svc.Submit(in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestReviewSubmitOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	merchant := seedMerchant(t, db, model.MerchantApproved)
	product := seedProduct(t, db, merchant.ID)
	order := seedOrder(t, db, product, 1)

	// a different customer cannot review someone else's order
	_, err := svc.Submit(validReview(order.ID, order.CustomerID+1))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestReviewSubmitMissingOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)

	_, err := svc.Submit(validReview(9999, 42))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestReviewAtMostOnePerOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	merchant := seedMerchant(t, db, model.MerchantApproved)
	product := seedProduct(t, db, merchant.ID)
	order := seedOrder(t, db, product, 1)

	_, err := svc.Submit(validReview(order.ID, order.CustomerID))
	require.NoError(t, err)

	_, err = svc.Submit(validReview(order.ID, order.CustomerID))
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestReviewConcurrentSubmissions(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	merchant := seedMerchant(t, db, model.MerchantApproved)
	product := seedProduct(t, db, merchant.ID)
	order := seedOrder(t, db, product, 1)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			_, errs[slot] = svc.Submit(validReview(order.ID, order.CustomerID))
		}(i)
	}
	wg.Wait()

	// exactly one submission wins; every loser conflicts
	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		}
	}
	assert.Equal(t, 1, successes)

	var count int64
	require.NoError(t, db.Model(&model.Review{}).Where("order_id = ?", order.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUnreviewedOrders(t *testing.T) {
	db := newTestDB(t)
	svc := NewReviewService(db)
	merchant := seedMerchant(t, db, model.MerchantApproved)
	product := seedProduct(t, db, merchant.ID)

	first := seedOrder(t, db, product, 1)
	second := seedOrder(t, db, product, 2)

	orders, err := svc.UnreviewedOrders(first.CustomerID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	// each eligible order carries its product's display fields
	assert.Equal(t, product.Name, orders[0].Product.Name)

	_, err = svc.Submit(validReview(first.ID, first.CustomerID))
	require.NoError(t, err)

	orders, err = svc.UnreviewedOrders(first.CustomerID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, second.ID, orders[0].ID)
}
