package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/models"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/repositories"
	"hajj_backend/internal/services/dto"
	"hajj_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const snapItemName = "Package Booking"

// PaymentSettings - параметры инициации оплаты из конфигурации
type PaymentSettings struct {
	Provider  string
	Timeout   time.Duration
	FinishURL string
}

type BookingPaymentService interface {
	InitiateBookingPayment(ctx context.Context, db *gorm.DB, userID uint, req *dto.CreateBookingRequest) (*dto.BookingPaymentResponse, error)
}

type bookingPaymentService struct {
	settings    PaymentSettings
	newGateway  payment.Factory
	gatewayRepo repositories.PaymentGatewayRepository
	packageRepo repositories.PackageRepository
	userRepo    repositories.UserRepository
	bookingRepo repositories.BookingRepository
	txnRepo     repositories.TransactionRepository
	now         func() time.Time
}

func NewBookingPaymentService(
	settings PaymentSettings,
	newGateway payment.Factory,
	gatewayRepo repositories.PaymentGatewayRepository,
	packageRepo repositories.PackageRepository,
	userRepo repositories.UserRepository,
	bookingRepo repositories.BookingRepository,
	txnRepo repositories.TransactionRepository,
) BookingPaymentService {
	return &bookingPaymentService{
		settings:    settings,
		newGateway:  newGateway,
		gatewayRepo: gatewayRepo,
		packageRepo: packageRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
		txnRepo:     txnRepo,
		now:         time.Now,
	}
}

// InitiateBookingPayment создает бронь и транзакцию и получает Snap token.
// При любой ошибке после начала записи все созданные строки удаляются.
func (s *bookingPaymentService) InitiateBookingPayment(ctx context.Context, db *gorm.DB, userID uint, req *dto.CreateBookingRequest) (*dto.BookingPaymentResponse, error) {
	log := logger.FromContext(ctx).With("user_id", userID)

	// 1. Шлюз проверяется до любой записи
	gw, err := s.gatewayRepo.FindActiveByName(db, s.settings.Provider)
	if err != nil {
		if errors.Is(err, repositories.ErrGatewayNotFound) {
			log.Warn("payment gateway is not configured", "provider", s.settings.Provider)
			return nil, apperrors.ErrPaymentUnavailable
		}
		return nil, apperrors.InternalError(err)
	}

	client, err := s.newGateway(gw, s.settings.Timeout)
	if err != nil {
		log.Error("payment gateway config is invalid", "gateway_id", gw.ID, "error", err)
		return nil, apperrors.ErrPaymentUnavailable.WithError(err)
	}

	exists, err := s.packageRepo.Exists(db, req.PackageID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.FieldError("package_id", "Selected package does not exist")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	amount := decimal.NewFromFloat(*req.Amount).Round(2)

	booking, txn, token, err := s.createWithToken(ctx, db, gw, client, user, req, amount)
	if err != nil {
		s.cleanup(ctx, db, booking, txn)
		log.Error("booking payment initiation failed",
			"package_id", req.PackageID,
			"amount", amount.StringFixed(2),
			"error", err,
		)
		return nil, apperrors.ErrPaymentInitiationFailed.WithError(err)
	}

	log.Info("booking payment initiated",
		"booking_id", booking.ID,
		"booking_reference", booking.Reference,
		"transaction_id", txn.ID,
	)

	return &dto.BookingPaymentResponse{
		SnapToken: token,
		BookingID: booking.ID,
	}, nil
}

// createWithToken выполняет шаги 2-7 в одной транзакции БД.
// Возвращает созданные записи даже при ошибке, чтобы их можно было удалить.
func (s *bookingPaymentService) createWithToken(
	ctx context.Context,
	db *gorm.DB,
	gw *models.PaymentGateway,
	client payment.Gateway,
	user *models.User,
	req *dto.CreateBookingRequest,
	amount decimal.Decimal,
) (*models.Booking, *models.Transaction, string, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, nil, "", fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	booking := &models.Booking{
		Status:    models.BookingStatusPendingPayment,
		Notes:     req.Notes,
		UserID:    user.ID,
		PackageID: req.PackageID,
	}
	if err := s.bookingRepo.Create(tx, booking); err != nil {
		return nil, nil, "", fmt.Errorf("create booking: %w", err)
	}

	txn := &models.Transaction{
		Amount:        amount,
		Status:        models.TransactionStatusPending,
		PaymentMethod: models.PaymentMethodSnap,
		BookingID:     booking.ID,
	}
	txn.LinkGateway(gw)
	if err := s.txnRepo.Create(tx, txn); err != nil {
		return booking, nil, "", fmt.Errorf("create transaction: %w", err)
	}

	grossAmount := amount.IntPart()
	snapReq := &payment.SnapRequest{
		OrderID:       payment.BuildOrderID(txn.ID, s.now()),
		GrossAmount:   grossAmount,
		CustomerName:  user.Name,
		CustomerEmail: user.Email,
		Items: []payment.Item{{
			ID:       strconv.FormatUint(uint64(req.PackageID), 10),
			Name:     snapItemName,
			Price:    grossAmount,
			Quantity: 1,
		}},
		FinishURL: s.settings.FinishURL,
	}

	token, err := client.CreateSnapToken(ctx, snapReq)
	if err != nil {
		return booking, txn, "", fmt.Errorf("create snap token for order %s: %w", snapReq.OrderID, err)
	}

	if err := tx.Commit().Error; err != nil {
		return booking, txn, "", fmt.Errorf("commit: %w", err)
	}
	return booking, txn, token, nil
}

// cleanup физически удаляет строки, которые могли пережить откат.
func (s *bookingPaymentService) cleanup(ctx context.Context, db *gorm.DB, booking *models.Booking, txn *models.Transaction) {
	if txn != nil && txn.ID != 0 {
		if err := s.txnRepo.HardDelete(db, txn.ID); err != nil {
			logger.CtxWithError(ctx, "failed to delete transaction after failed initiation", err, "transaction_id", txn.ID)
		}
	}
	if booking != nil && booking.ID != 0 {
		if err := s.bookingRepo.HardDelete(db, booking.ID); err != nil {
			logger.CtxWithError(ctx, "failed to delete booking after failed initiation", err, "booking_id", booking.ID)
		}
	}
}
