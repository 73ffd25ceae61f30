package promptpay

import (
	"fmt"
	"strings"
)

// EMVCo仕様のID
const (
	idPayloadFormat       = "00"
	idPointOfInitiation   = "01"
	idMerchantAccountInfo = "29"
	idCurrency            = "53"
	idAmount              = "54"
	idCountryCode         = "58"
	idCRC                 = "63"

	aidPromptPay = "A000000677010111"

	// 764 = THB
	currencyTHB = "764"
)

// BuildPayload はPromptPayのQR文字列を組み立てる。
// target は電話番号（0812345678）か国民ID（13桁）。
// amountSatang が0より大きければ金額入りの動的QRになる。
func BuildPayload(target string, amountSatang int64) (string, error) {
	accountField, err := merchantAccount(target)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(tlv(idPayloadFormat, "01"))
	if amountSatang > 0 {
		// 金額入りは使い捨て（dynamic）
		b.WriteString(tlv(idPointOfInitiation, "12"))
	} else {
		b.WriteString(tlv(idPointOfInitiation, "11"))
	}
	b.WriteString(tlv(idMerchantAccountInfo, accountField))
	b.WriteString(tlv(idCountryCode, "TH"))
	b.WriteString(tlv(idCurrency, currencyTHB))
	if amountSatang > 0 {
		b.WriteString(tlv(idAmount, fmt.Sprintf("%d.%02d", amountSatang/100, amountSatang%100)))
	}

	// CRCは「ID+長さ(04)」まで含めて計算する
	payload := b.String() + idCRC + "04"
	crc := crc16(payload)
	return payload + fmt.Sprintf("%04X", crc), nil
}

func merchantAccount(target string) (string, error) {
	digits := onlyDigits(target)

	switch {
	case len(digits) == 13:
		// 国民ID
		return tlv("00", aidPromptPay) + tlv("02", digits), nil
	case len(digits) == 10 && strings.HasPrefix(digits, "0"):
		// 電話番号は 0066 + 先頭0を除いた9桁 の13桁表現
		return tlv("00", aidPromptPay) + tlv("01", "0066"+digits[1:]), nil
	default:
		return "", fmt.Errorf("invalid promptpay target %q", target)
	}
}

func tlv(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CRC-16/CCITT-FALSE（poly 0x1021, init 0xFFFF）
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
