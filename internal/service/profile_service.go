package service

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/shopfront/internal/constants"
	"github.com/shopfront/internal/fieldcrypt"
	"github.com/shopfront/internal/logger"
	"github.com/shopfront/internal/models"
	"github.com/shopfront/internal/repository"
)

const (
	maxPaymentNicknameLen = 45
	maxAddressNicknameLen = 20
)

// ProfileService 用户收货地址与支付方式服务
type ProfileService struct {
	paymentRepo repository.PaymentInfoRepository
	addressRepo repository.ShippingAddressRepository
	cipher      *fieldcrypt.Cipher
}

// NewProfileService 创建资料服务
func NewProfileService(paymentRepo repository.PaymentInfoRepository, addressRepo repository.ShippingAddressRepository, cipher *fieldcrypt.Cipher) *ProfileService {
	return &ProfileService{
		paymentRepo: paymentRepo,
		addressRepo: addressRepo,
		cipher:      cipher,
	}
}

// ShippingAddressInput 收货地址输入
type ShippingAddressInput struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Nickname   string `json:"nickname"`
}

// ShippingAddressDetail 收货地址查询结果
type ShippingAddressDetail struct {
	ID         uint   `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
	Nickname   string `json:"nickname"`
}

// PaymentInfoInput 支付方式输入（明文，仅在内存中存在）
type PaymentInfoInput struct {
	PaymentMethod string `json:"payment_method"`
	CardType      string `json:"card_type"`
	CardNumber    string `json:"card_number"`
	CVV           string `json:"cvv"`
	Nickname      string `json:"nickname"`
}

// PaymentInfoSummary 支付方式列表项（卡号脱敏）
type PaymentInfoSummary struct {
	ID            uint   `json:"id"`
	PaymentMethod string `json:"payment_method"`
	CardType      string `json:"card_type"`
	MaskedNumber  string `json:"masked_number"`
	CardLast4     string `json:"card_last4"`
	Nickname      string `json:"nickname"`
}

// PaymentDetail 支付方式明细（解密后）
type PaymentDetail struct {
	ID            uint   `json:"id"`
	PaymentMethod string `json:"payment_method"`
	CardType      string `json:"card_type"`
	CardNumber    string `json:"card_number"`
	CVV           string `json:"cvv"`
	Nickname      string `json:"nickname"`
}

// AddShippingAddress 新增收货地址
func (s *ProfileService) AddShippingAddress(userID uint, input ShippingAddressInput) (*ShippingAddressDetail, error) {
	address, err := buildShippingAddress(userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.addressRepo.Create(address); err != nil {
		return nil, err
	}
	return toShippingAddressDetail(address), nil
}

// UpdateShippingAddress 修改收货地址
func (s *ProfileService) UpdateShippingAddress(userID, id uint, input ShippingAddressInput) (*ShippingAddressDetail, error) {
	existing, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	next, err := buildShippingAddress(userID, input)
	if err != nil {
		return nil, err
	}
	existing.Street = next.Street
	existing.City = next.City
	existing.State = next.State
	existing.Country = next.Country
	existing.PostalCode = next.PostalCode
	existing.Nickname = next.Nickname
	if err := s.addressRepo.Update(existing); err != nil {
		return nil, err
	}
	return toShippingAddressDetail(existing), nil
}

// ListShippingAddresses 收货地址列表
func (s *ProfileService) ListShippingAddresses(userID uint) ([]ShippingAddressDetail, error) {
	addresses, err := s.addressRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	result := make([]ShippingAddressDetail, 0, len(addresses))
	for i := range addresses {
		result = append(result, *toShippingAddressDetail(&addresses[i]))
	}
	return result, nil
}

// GetShippingAddress 查询用户自己的收货地址
func (s *ProfileService) GetShippingAddress(userID, id uint) (*ShippingAddressDetail, error) {
	address, err := s.addressRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if address == nil {
		return nil, ErrNotFound
	}
	return toShippingAddressDetail(address), nil
}

// AddPaymentInfo 新增支付方式，卡号与 CVV 加密后落库
func (s *ProfileService) AddPaymentInfo(userID uint, input PaymentInfoInput) (*PaymentInfoSummary, error) {
	info, err := s.buildPaymentInfo(userID, input)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Create(info); err != nil {
		return nil, err
	}
	return toPaymentInfoSummary(info), nil
}

// UpdatePaymentInfo 修改支付方式（重新加密）
func (s *ProfileService) UpdatePaymentInfo(userID, id uint, input PaymentInfoInput) (*PaymentInfoSummary, error) {
	existing, err := s.paymentRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	next, err := s.buildPaymentInfo(userID, input)
	if err != nil {
		return nil, err
	}
	existing.PaymentMethod = next.PaymentMethod
	existing.CardType = next.CardType
	existing.CardNumberCipher = next.CardNumberCipher
	existing.CardLast4 = next.CardLast4
	existing.CVVCipher = next.CVVCipher
	existing.Nickname = next.Nickname
	if err := s.paymentRepo.Update(existing); err != nil {
		return nil, err
	}
	return toPaymentInfoSummary(existing), nil
}

// ListPaymentInfos 支付方式列表（仅返回卡号后四位）
func (s *ProfileService) ListPaymentInfos(userID uint) ([]PaymentInfoSummary, error) {
	infos, err := s.paymentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	result := make([]PaymentInfoSummary, 0, len(infos))
	for i := range infos {
		result = append(result, *toPaymentInfoSummary(&infos[i]))
	}
	return result, nil
}

// GetPaymentDetail 查询并解密用户自己的支付方式
func (s *ProfileService) GetPaymentDetail(userID, id uint) (*PaymentDetail, error) {
	info, err := s.paymentRepo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrNotFound
	}
	cardNumber, err := s.decrypt(fieldcrypt.Label(paymentFieldCardNumber, info.UserID), info.CardNumberCipher)
	if err != nil {
		logger.Errorw("payment_info_decrypt_failed", "payment_info_id", info.ID, "user_id", userID, "field", "card_number")
		return nil, err
	}
	cvv, err := s.decrypt(fieldcrypt.Label(paymentFieldCVV, info.UserID), info.CVVCipher)
	if err != nil {
		logger.Errorw("payment_info_decrypt_failed", "payment_info_id", info.ID, "user_id", userID, "field", "cvv")
		return nil, err
	}
	return &PaymentDetail{
		ID:            info.ID,
		PaymentMethod: info.PaymentMethod,
		CardType:      info.CardType,
		CardNumber:    cardNumber,
		CVV:           cvv,
		Nickname:      info.Nickname,
	}, nil
}

// 支付字段密文绑定的字段名
const (
	paymentFieldCardNumber = "card_number"
	paymentFieldCVV        = "cvv"
)

func (s *ProfileService) decrypt(label, token string) (string, error) {
	if s.cipher == nil {
		return "", ErrDecryption
	}
	plaintext, err := s.cipher.Decrypt(label, token)
	if err != nil {
		if errors.Is(err, fieldcrypt.ErrDecryption) {
			return "", ErrDecryption
		}
		return "", err
	}
	return plaintext, nil
}

// buildPaymentInfo 校验输入并生成加密后的支付方式记录
func (s *ProfileService) buildPaymentInfo(userID uint, input PaymentInfoInput) (*models.PaymentInfo, error) {
	normalized, err := normalizePaymentInfoInput(input)
	if err != nil {
		return nil, err
	}
	if s.cipher == nil {
		return nil, ErrInvalidPaymentInfo
	}
	numberCipher, err := s.cipher.Encrypt(fieldcrypt.Label(paymentFieldCardNumber, userID), normalized.CardNumber)
	if err != nil {
		return nil, err
	}
	cvvCipher, err := s.cipher.Encrypt(fieldcrypt.Label(paymentFieldCVV, userID), normalized.CVV)
	if err != nil {
		return nil, err
	}
	return &models.PaymentInfo{
		UserID:           userID,
		PaymentMethod:    normalized.PaymentMethod,
		CardType:         normalized.CardType,
		CardNumberCipher: numberCipher,
		CardLast4:        normalized.CardNumber[len(normalized.CardNumber)-4:],
		CVVCipher:        cvvCipher,
		Nickname:         normalized.Nickname,
	}, nil
}

func normalizePaymentInfoInput(input PaymentInfoInput) (PaymentInfoInput, error) {
	out := PaymentInfoInput{
		PaymentMethod: strings.ToLower(strings.TrimSpace(input.PaymentMethod)),
		CardType:      strings.ToLower(strings.TrimSpace(input.CardType)),
		CardNumber:    stripCardSeparators(input.CardNumber),
		CVV:           strings.TrimSpace(input.CVV),
		Nickname:      strings.TrimSpace(input.Nickname),
	}
	switch out.PaymentMethod {
	case constants.PaymentMethodDebit, constants.PaymentMethodCredit:
	default:
		return out, ErrInvalidPaymentInfo
	}
	switch out.CardType {
	case constants.CardTypeVisa, constants.CardTypeMastercard:
	default:
		return out, ErrInvalidPaymentInfo
	}
	if !isDigits(out.CardNumber, 13, 16) || !isDigits(out.CVV, 3, 4) {
		return out, ErrInvalidPaymentInfo
	}
	if utf8.RuneCountInString(out.Nickname) > maxPaymentNicknameLen {
		return out, ErrInvalidPaymentInfo
	}
	return out, nil
}

func buildShippingAddress(userID uint, input ShippingAddressInput) (*models.ShippingAddress, error) {
	address := &models.ShippingAddress{
		UserID:     userID,
		Street:     strings.TrimSpace(input.Street),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		Country:    strings.TrimSpace(input.Country),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Nickname:   strings.TrimSpace(input.Nickname),
	}
	if address.Street == "" || address.City == "" || address.State == "" || address.Country == "" || address.PostalCode == "" {
		return nil, ErrInvalidShippingAddress
	}
	if utf8.RuneCountInString(address.Nickname) > maxAddressNicknameLen {
		return nil, ErrInvalidShippingAddress
	}
	return address, nil
}

func toShippingAddressDetail(address *models.ShippingAddress) *ShippingAddressDetail {
	return &ShippingAddressDetail{
		ID:         address.ID,
		Street:     address.Street,
		City:       address.City,
		State:      address.State,
		Country:    address.Country,
		PostalCode: address.PostalCode,
		Nickname:   address.Nickname,
	}
}

func toPaymentInfoSummary(info *models.PaymentInfo) *PaymentInfoSummary {
	return &PaymentInfoSummary{
		ID:            info.ID,
		PaymentMethod: info.PaymentMethod,
		CardType:      info.CardType,
		MaskedNumber:  "**** **** **** " + info.CardLast4,
		CardLast4:     info.CardLast4,
		Nickname:      info.Nickname,
	}
}

func stripCardSeparators(raw string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(raw))
}

func isDigits(value string, minLen, maxLen int) bool {
	if len(value) < minLen || len(value) > maxLen {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
