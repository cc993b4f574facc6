package service

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/blob"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/mailer"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/metrics"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// Default pagination for the ministry's pending-merchant queue
const (
	defaultPage     = 1
	defaultPageSize = 5
	maxDocuments    = 3
)

// MerchantService owns merchant records and their approval state machine
type MerchantService struct {
	db    *gorm.DB
	blobs blob.Store
	mail  mailer.Notifier
}

// NewMerchantService creates the merchant registry component
func NewMerchantService(db *gorm.DB, blobs blob.Store, mail mailer.Notifier) *MerchantService {
	return &MerchantService{db: db, blobs: blobs, mail: mail}
}

// RegisterMerchantInput is the payload for merchant registration
type RegisterMerchantInput struct {
	Name          string `json:"name" validate:"required"`
	ContactNumber string `json:"contact_number" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Description   string `json:"description" validate:"required"`
}

// Register creates a PENDING merchant. The email must not be in use by any
// merchant or user, compared case-insensitively.
func (s *MerchantService) Register(in *RegisterMerchantInput) (*model.Merchant, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.Model(&model.Merchant{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to check merchant email")
	}
	if count == 0 {
		if err := s.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, apperr.Internal(err, "failed to check user email")
		}
	}
	if count > 0 {
		return nil, apperr.Conflict("email %s is already registered", email)
	}

	merchant := model.Merchant{
		Name:          in.Name,
		ContactNumber: in.ContactNumber,
		Email:         email,
		Description:   in.Description,
		Status:        model.MerchantPending,
	}

	if err := s.db.Create(&merchant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email %s is already registered", email)
		}
		return nil, apperr.Internal(err, "failed to create merchant")
	}

	return &merchant, nil
}

// AttachDocuments replaces the merchant's vetting document set. New blobs are
// stored and referenced before the old handles are released, so a crash never
// leaves the record pointing at deleted blobs.
func (s *MerchantService) AttachDocuments(merchantID uint, uploads []*Upload, description string) error {
	var merchant model.Merchant
	if err := s.db.First(&merchant, merchantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("merchant %d not found", merchantID)
		}
		return apperr.Internal(err, "failed to load merchant")
	}

	if len(uploads) == 0 {
		return apperr.Validation("at least one document is required")
	}
	if len(uploads) > maxDocuments {
		return apperr.Validation("at most %d documents may be attached", maxDocuments)
	}
	for _, u := range uploads {
		if err := checkUploadPolicy(u, documentContentTypes); err != nil {
			return err
		}
	}

	docs := make([]model.MerchantDocument, 0, len(uploads))
	for _, u := range uploads {
		handle, err := s.blobs.Store(u.Data, u.ContentType)
		if err != nil {
			// roll back blobs stored so far
			for _, d := range docs {
				if delErr := s.blobs.Delete(d.BlobHandle); delErr != nil {
					logger.GetLogger().Warn("failed to clean up document blob",
						zap.String("handle", d.BlobHandle), zap.Error(delErr))
				}
			}
			return apperr.Upstream(err, "failed to store document")
		}
		docs = append(docs, model.MerchantDocument{
			MerchantID: merchantID,
			Filename:   u.Filename,
			BlobHandle: handle,
		})
	}

	var oldHandles []string
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var previous []model.MerchantDocument
		if err := tx.Where("merchant_id = ?", merchantID).Find(&previous).Error; err != nil {
			return err
		}
		for _, d := range previous {
			oldHandles = append(oldHandles, d.BlobHandle)
		}

		if err := tx.Where("merchant_id = ?", merchantID).Delete(&model.MerchantDocument{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&docs).Error; err != nil {
			return err
		}
		return tx.Model(&merchant).Update("document_description", description).Error
	})
	if err != nil {
		return apperr.Internal(err, "failed to replace merchant documents")
	}

	// old blobs are released only after the new set is durably referenced
	for _, handle := range oldHandles {
		if err := s.blobs.Delete(handle); err != nil && !errors.Is(err, blob.ErrNotFound) {
			logger.GetLogger().Warn("failed to release replaced document blob",
				zap.String("handle", handle), zap.Error(err))
		}
	}

	return nil
}

// ListPending returns PENDING merchants ordered by creation, paginated
func (s *MerchantService) ListPending(page, pageSize int) ([]model.Merchant, error) {
	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	var merchants []model.Merchant
	err := s.db.Where("status = ?", model.MerchantPending).
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Preload("Documents").
		Find(&merchants).Error
	if err != nil {
		return nil, apperr.Internal(err, "failed to list pending merchants")
	}
	return merchants, nil
}

// Transition moves a merchant to APPROVED or REJECTED. Both targets are
// terminal: re-transitioning an already-decided merchant is a conflict. The
// status change is a compare-and-swap on PENDING, so of any concurrent
// transitions exactly one wins.
func (s *MerchantService) Transition(merchantID uint, target model.MerchantStatus) (*model.Merchant, error) {
	if target != model.MerchantApproved && target != model.MerchantRejected {
		return nil, apperr.Validation("invalid target status %q", target)
	}

	var merchant model.Merchant
	if err := s.db.First(&merchant, merchantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("merchant %d not found", merchantID)
		}
		return nil, apperr.Internal(err, "failed to load merchant")
	}
	if merchant.Status.Terminal() {
		return nil, apperr.Conflict("merchant %d is already %s", merchantID, merchant.Status)
	}

	res := s.db.Model(&model.Merchant{}).
		Where("id = ? AND status = ?", merchantID, model.MerchantPending).
		Update("status", target)
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "failed to transition merchant")
	}
	if res.RowsAffected == 0 {
		// already decided, either before this call or by a concurrent one
		return nil, apperr.Conflict("merchant %d has already been decided", merchantID)
	}
	merchant.Status = target

	metrics.MerchantTransitionCounter.WithLabelValues(string(target)).Inc()
	s.notifyTransition(&merchant)

	return &merchant, nil
}

// FindIDByEmail resolves a merchant id from its registration email
func (s *MerchantService) FindIDByEmail(email string) (uint, error) {
	var merchant model.Merchant
	err := s.db.Select("id").Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperr.NotFound("no merchant registered with email %s", email)
	}
	if err != nil {
		return 0, apperr.Internal(err, "failed to look up merchant")
	}
	return merchant.ID, nil
}

// notifyTransition emails the decision to the merchant, fire-and-forget
func (s *MerchantService) notifyTransition(merchant *model.Merchant) {
	if s.mail == nil {
		return
	}
	subject := fmt.Sprintf("Your merchant application is %s", strings.ToLower(string(merchant.Status)))
	body := fmt.Sprintf("Hello %s,\n\nYour merchant application has been %s.\n",
		merchant.Name, strings.ToLower(string(merchant.Status)))

	go func() {
		if err := s.mail.Send(merchant.Email, subject, body); err != nil {
			logger.GetLogger().Warn("failed to send merchant transition mail",
				zap.Uint("merchant_id", merchant.ID), zap.Error(err))
		}
	}()
}
