package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/amarshaik012/smart-qr-health/internal/cache"
	"github.com/amarshaik012/smart-qr-health/internal/repository"
)

// ReceptionOTPTTL is how long a reception OTP stays valid.
const ReceptionOTPTTL = 300 * time.Second

// Reception OTP verification outcomes.
var (
	ErrOTPMissing = errors.New("otp not found")
	ErrOTPExpired = errors.New("otp expired")
	ErrOTPInvalid = errors.New("otp mismatch")
)

// OTPService issues six-digit one-time codes. Codes are written to the log at debug level
// because no SMS gateway is wired.
type OTPService interface {
	// SendPublic stores a code in otp_logs for the patient-facing flow.
	SendPublic(ctx context.Context, phone string) error
	// VerifyPublic checks code against the latest code for phone and marks it verified.
	VerifyPublic(ctx context.Context, phone, code string) (bool, error)

	// SendReception keeps a code in the cache for ReceptionOTPTTL.
	SendReception(ctx context.Context, phone string) error
	// VerifyReception consumes the code on success or expiry.
	VerifyReception(ctx context.Context, phone, code string) error
}

type otpService struct {
	logs  repository.OTPRepository
	cache cache.Cache
	log   *zap.Logger
	now   func() time.Time
	gen   func() (string, error)
}

// NewOTPService constructs an OTPService.
func NewOTPService(logs repository.OTPRepository, c cache.Cache, log *zap.Logger) OTPService {
	return &otpService{logs: logs, cache: c, log: log, now: time.Now, gen: generateOTP}
}

type receptionOTP struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

func receptionOTPKey(phone string) string {
	return "otp:reception:" + phone
}

func (s *otpService) SendPublic(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return invalid("Phone number is required.")
	}
	code, err := s.gen()
	if err != nil {
		return err
	}
	if err := s.logs.Create(ctx, phone, code); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	s.log.Debug("otp issued", zap.String("flow", "public"), zap.String("phone", phone), zap.String("otp", code))
	return nil
}

func (s *otpService) VerifyPublic(ctx context.Context, phone, code string) (bool, error) {
	rec, err := s.logs.Latest(ctx, strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	if subtleEqual(rec.OTP, strings.TrimSpace(code)) {
		if err := s.logs.MarkVerified(ctx, rec.ID); err != nil {
			return false, fmt.Errorf("mark otp verified: %w", err)
		}
		return true, nil
	}
	return false, nil
}

func (s *otpService) SendReception(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return invalid("Phone number is required.")
	}
	code, err := s.gen()
	if err != nil {
		return err
	}
	b, err := json.Marshal(receptionOTP{Code: code, ExpiresAt: s.now().Add(ReceptionOTPTTL)})
	if err != nil {
		return err
	}
	// Kept past expiry so that a late attempt reports "expired" rather than "missing".
	if err := s.cache.Set(ctx, receptionOTPKey(phone), b, 2*ReceptionOTPTTL); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	s.log.Debug("otp issued", zap.String("flow", "reception"), zap.String("phone", phone), zap.String("otp", code))
	return nil
}

func (s *otpService) VerifyReception(ctx context.Context, phone, code string) error {
	key := receptionOTPKey(strings.TrimSpace(phone))
	b, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return ErrOTPMissing
	}
	if err != nil {
		return fmt.Errorf("load otp: %w", err)
	}

	var rec receptionOTP
	if err := json.Unmarshal(b, &rec); err != nil {
		_ = s.cache.Delete(ctx, key)
		return ErrOTPMissing
	}
	if s.now().After(rec.ExpiresAt) {
		_ = s.cache.Delete(ctx, key)
		return ErrOTPExpired
	}
	if !subtleEqual(rec.Code, strings.TrimSpace(code)) {
		return ErrOTPInvalid
	}
	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("consume otp: %w", err)
	}
	return nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}

func subtleEqual(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
