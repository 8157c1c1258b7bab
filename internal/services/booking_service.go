package services

import (
	"context"
	"errors"
	"time"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/models"
	"hajj_backend/internal/repositories"
	"hajj_backend/internal/services/dto"
	"hajj_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type BookingService interface {
	// GetUserBooking возвращает бронь владельцу вместе с попытками оплаты
	GetUserBooking(db *gorm.DB, userID, bookingID uint) (*dto.BookingResponse, error)
	// UpdateStatus - ручное изменение статуса персоналом
	UpdateStatus(ctx context.Context, db *gorm.DB, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error)
	FindStalePendingPayment(db *gorm.DB, olderThan time.Duration, limit int) ([]dto.StaleBooking, error)
}

type bookingService struct {
	bookingRepo repositories.BookingRepository
	txnRepo     repositories.TransactionRepository
	now         func() time.Time
}

func NewBookingService(bookingRepo repositories.BookingRepository, txnRepo repositories.TransactionRepository) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		txnRepo:     txnRepo,
		now:         time.Now,
	}
}

func (s *bookingService) GetUserBooking(db *gorm.DB, userID, bookingID uint) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindByIDWithTransactions(db, bookingID)
	if err != nil {
		return nil, handleBookingError(err)
	}
	// Чужая бронь выглядит как несуществующая
	if booking.UserID != userID {
		return nil, apperrors.ErrBookingNotFound
	}
	return dto.NewBookingResponse(booking), nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, db *gorm.DB, req *dto.UpdateBookingStatusRequest) (*dto.BookingResponse, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	booking, err := s.bookingRepo.FindByIDWithTransactions(tx, req.BookingID)
	if err != nil {
		return nil, handleBookingError(err)
	}

	status := models.BookingStatus(req.Status)
	if err := s.bookingRepo.UpdateStatus(tx, booking.ID, status); err != nil {
		return nil, handleBookingError(err)
	}
	booking.Status = status

	// Статус меняется у последней попытки оплаты
	if req.TransactionStatus != nil && len(booking.Transactions) > 0 {
		last := &booking.Transactions[len(booking.Transactions)-1]
		last.Status = models.TransactionStatus(*req.TransactionStatus)
		if err := s.txnRepo.Save(tx, last); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "booking status changed manually",
		"booking_id", booking.ID,
		"status", status,
	)
	return dto.NewBookingResponse(booking), nil
}

func (s *bookingService) FindStalePendingPayment(db *gorm.DB, olderThan time.Duration, limit int) ([]dto.StaleBooking, error) {
	bookings, err := s.bookingRepo.FindStalePendingPayment(db, s.now().Add(-olderThan), limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	out := make([]dto.StaleBooking, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, dto.StaleBooking{
			ID:        b.ID,
			Reference: b.Reference,
			UserID:    b.UserID,
			CreatedAt: b.CreatedAt,
		})
	}
	return out, nil
}

func handleBookingError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) ||
		errors.Is(err, repositories.ErrBookingNotFound) {
		return apperrors.ErrBookingNotFound.WithError(err)
	}
	return apperrors.InternalError(err)
}
