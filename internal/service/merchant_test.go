package service

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

func newMerchantService(t *testing.T) (*MerchantService, *fakeBlobStore, *fakeNotifier) {
	db := newTestDB(t)
	blobs := newFakeBlobStore()
	mail := newFakeNotifier()
	return NewMerchantService(db, blobs, mail), blobs, mail
}

func TestMerchantRegister(t *testing.T) {
	svc, _, _ := newMerchantService(t)

	merchant, err := svc.Register(&RegisterMerchantInput{
		Name:          "Acme Tours",
		ContactNumber: "123",
		Email:         "a@x.com",
		Description:   "island hopping specialists",
	})
	require.NoError(t, err)
	assert.NotZero(t, merchant.ID)
	assert.Equal(t, model.MerchantPending, merchant.Status)
}

func TestMerchantRegisterValidation(t *testing.T) {
	svc, _, _ := newMerchantService(t)

	cases := []struct {
		name string
		in   RegisterMerchantInput
	}{
		{"missing name", RegisterMerchantInput{ContactNumber: "123", Email: "a@x.com", Description: "d"}},
		{"missing contact", RegisterMerchantInput{Name: "Acme", Email: "a@x.com", Description: "d"}},
		{"missing email", RegisterMerchantInput{Name: "Acme", ContactNumber: "123", Description: "d"}},
		{"malformed email", RegisterMerchantInput{Name: "Acme", ContactNumber: "123", Email: "not-an-email", Description: "d"}},
		{"missing description", RegisterMerchantInput{Name: "Acme", ContactNumber: "123", Email: "a@x.com"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(&tc.in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestMerchantRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newMerchantService(t)

	_, err := svc.Register(&RegisterMerchantInput{
		Name: "Acme Tours", ContactNumber: "123", Email: "a@x.com", Description: "d",
	})
	require.NoError(t, err)

	// case-insensitive: A@X.COM collides with a@x.com
	_, err = svc.Register(&RegisterMerchantInput{
		Name: "Other Tours", ContactNumber: "456", Email: "A@X.COM", Description: "d",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestMerchantRegisterEmailUsedByUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())

	require.NoError(t, db.Create(&model.User{
		Email: "taken@x.com", Password: "hash", Role: "customer",
	}).Error)

	_, err := svc.Register(&RegisterMerchantInput{
		Name: "Acme", ContactNumber: "123", Email: "taken@x.com", Description: "d",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAttachDocumentsReplacesSet(t *testing.T) {
	db := newTestDB(t)
	blobs := newFakeBlobStore()
	svc := NewMerchantService(db, blobs, newFakeNotifier())
	merchant := seedMerchant(t, db, model.MerchantPending)

	first := []*Upload{
		{Filename: "license.pdf", ContentType: "application/pdf", Data: []byte("v1")},
		{Filename: "permit.png", ContentType: "image/png", Data: []byte("v1")},
	}
	require.NoError(t, svc.AttachDocuments(merchant.ID, first, "initial set"))
	assert.Equal(t, 2, blobs.count())

	second := []*Upload{
		{Filename: "license-v2.pdf", ContentType: "application/pdf", Data: []byte("v2")},
	}
	require.NoError(t, svc.AttachDocuments(merchant.ID, second, "replacement"))

	// the set is replaced, not appended, and the old blobs are released
	assert.Equal(t, 1, blobs.count())

	var docs []model.MerchantDocument
	require.NoError(t, db.Where("merchant_id = ?", merchant.ID).Find(&docs).Error)
	require.Len(t, docs, 1)
	assert.Equal(t, "license-v2.pdf", docs[0].Filename)
	assert.True(t, blobs.has(docs[0].BlobHandle))

	var reloaded model.Merchant
	require.NoError(t, db.First(&reloaded, merchant.ID).Error)
	assert.Equal(t, "replacement", reloaded.DocumentDescription)
}

func TestAttachDocumentsPolicy(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())
	merchant := seedMerchant(t, db, model.MerchantPending)

	pdf := func(name string) *Upload {
		return &Upload{Filename: name, ContentType: "application/pdf", Data: []byte("x")}
	}

	t.Run("merchant not found", func(t *testing.T) {
		err := svc.AttachDocuments(9999, []*Upload{pdf("a.pdf")}, "")
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})

	t.Run("no documents", func(t *testing.T) {
		err := svc.AttachDocuments(merchant.ID, nil, "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("too many documents", func(t *testing.T) {
		err := svc.AttachDocuments(merchant.ID,
			[]*Upload{pdf("a.pdf"), pdf("b.pdf"), pdf("c.pdf"), pdf("d.pdf")}, "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("oversized document", func(t *testing.T) {
		big := &Upload{
			Filename:    "big.pdf",
			ContentType: "application/pdf",
			Data:        bytes.Repeat([]byte("x"), maxUploadSize+1),
		}
		err := svc.AttachDocuments(merchant.ID, []*Upload{big}, "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("unsupported type", func(t *testing.T) {
		exe := &Upload{Filename: "a.exe", ContentType: "application/octet-stream", Data: []byte("x")}
		err := svc.AttachDocuments(merchant.ID, []*Upload{exe}, "")
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})
}

func TestListPendingPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())

	for i := 0; i < 7; i++ {
		seedMerchant(t, db, model.MerchantPending)
	}
	seedMerchant(t, db, model.MerchantApproved)

	// default page size is 5
	page1, err := svc.ListPending(0, 0)
	require.NoError(t, err)
	assert.Len(t, page1, 5)

	page2, err := svc.ListPending(2, 5)
	require.NoError(t, err)
	assert.Len(t, page2, 2)
}

func TestTransition(t *testing.T) {
	db := newTestDB(t)
	mail := newFakeNotifier()
	svc := NewMerchantService(db, newFakeBlobStore(), mail)
	merchant := seedMerchant(t, db, model.MerchantPending)

	updated, err := svc.Transition(merchant.ID, model.MerchantApproved)
	require.NoError(t, err)
	assert.Equal(t, model.MerchantApproved, updated.Status)

	// the decision mail goes out without blocking the transition
	select {
	case to := <-mail.sent:
		assert.Equal(t, merchant.Email, to)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a notification mail")
	}

	// approved merchants leave the pending queue
	pending, err := svc.ListPending(1, 50)
	require.NoError(t, err)
	for _, m := range pending {
		assert.NotEqual(t, merchant.ID, m.ID)
	}
}

func TestTransitionTerminalIsConflict(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())
	merchant := seedMerchant(t, db, model.MerchantPending)

	_, err := svc.Transition(merchant.ID, model.MerchantRejected)
	require.NoError(t, err)

	_, err = svc.Transition(merchant.ID, model.MerchantApproved)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestTransitionConcurrentDecisions(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())
	merchant := seedMerchant(t, db, model.MerchantPending)

	const n = 6
	var wg sync.WaitGroup
	results := make([]*model.Merchant, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			target := model.MerchantApproved
			if slot%2 == 1 {
				target = model.MerchantRejected
			}
			results[slot], errs[slot] = svc.Transition(merchant.ID, target)
		}(i)
	}
	wg.Wait()

	// exactly one decision wins; every loser conflicts
	var winner *model.Merchant
	successes := 0
	for i, err := range errs {
		if err == nil {
			successes++
			winner = results[i]
		} else {
			assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
		}
	}
	require.Equal(t, 1, successes)

	var persisted model.Merchant
	require.NoError(t, db.First(&persisted, merchant.ID).Error)
	assert.Equal(t, winner.Status, persisted.Status)
}

func TestTransitionErrors(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())
	merchant := seedMerchant(t, db, model.MerchantPending)

	_, err := svc.Transition(9999, model.MerchantApproved)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Transition(merchant.ID, model.MerchantPending)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestFindIDByEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewMerchantService(db, newFakeBlobStore(), newFakeNotifier())
	merchant := seedMerchant(t, db, model.MerchantApproved)

	id, err := svc.FindIDByEmail(merchant.Email)
	require.NoError(t, err)
	assert.Equal(t, merchant.ID, id)

	_, err = svc.FindIDByEmail("nobody@x.com")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
