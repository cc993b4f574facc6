package service

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/blob"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// newTestDB opens an isolated in-memory store. A single connection keeps
// every goroutine on the same database and serializes writes the way a
// row-locked counter would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Merchant{},
		&model.MerchantDocument{},
		&model.Product{},
		&model.Order{},
		&model.OrderCounter{},
		&model.Payment{},
		&model.Review{},
	))

	return db
}

// fakeBlobStore is an in-memory blob.Store recording every mutation
type fakeBlobStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
	seq   int
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (f *fakeBlobStore) Store(data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	handle := fmt.Sprintf("blob-%d", f.seq)
	f.blobs[handle] = data
	return handle, nil
}

func (f *fakeBlobStore) Fetch(handle string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[handle]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return data, nil
}

func (f *fakeBlobStore) Delete(handle string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.blobs[handle]; !ok {
		return blob.ErrNotFound
	}
	delete(f.blobs, handle)
	return nil
}

func (f *fakeBlobStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

func (f *fakeBlobStore) has(handle string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[handle]
	return ok
}

// fakeNotifier records outbound mail on a channel so tests can wait for the
// fire-and-forget send.
type fakeNotifier struct {
	sent chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan string, 8)}
}

func (f *fakeNotifier) Send(to, subject, body string) error {
	f.sent <- to
	return nil
}

func seedMerchant(t *testing.T, db *gorm.DB, status model.MerchantStatus) *model.Merchant {
	t.Helper()
	merchant := &model.Merchant{
		Name:          "Acme Tours",
		ContactNumber: "123",
		Email:         fmt.Sprintf("acme-%s-%d@x.com", strings.ToLower(string(status)), seedCounter(db)),
		Description:   "tours and activities",
		Status:        status,
	}
	require.NoError(t, db.Create(merchant).Error)
	return merchant
}

func seedProduct(t *testing.T, db *gorm.DB, merchantID uint) *model.Product {
	t.Helper()
	product := &model.Product{
		Name:        "Island Diving Trip",
		Description: "full day diving trip",
		Price:       100,
		Category:    "Diving",
		ImageHandle: "seed-image",
		MerchantID:  merchantID,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

var seedCounters = struct {
	mu sync.Mutex
	n  map[*gorm.DB]int
}{n: map[*gorm.DB]int{}}

func seedCounter(db *gorm.DB) int {
	seedCounters.mu.Lock()
	defer seedCounters.mu.Unlock()
	seedCounters.n[db]++
	return seedCounters.n[db]
}
