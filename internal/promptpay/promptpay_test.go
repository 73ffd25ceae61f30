package promptpay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16_KnownVector(t *testing.T) {
	// CRC-16/CCITT-FALSE の標準検証値
	assert.Equal(t, uint16(0x29B1), crc16("123456789"))
}

func TestBuildPayload_Phone(t *testing.T) {
	payload, err := BuildPayload("0812345678", 13000) // 130.00 THB
	assert.NoError(t, err)

	assert.True(t, strings.HasPrefix(payload, "000201"), "payload=%s", payload)
	assert.Contains(t, payload, "010212", "金額入りはdynamic")
	assert.Contains(t, payload, "0016"+aidPromptPay)
	assert.Contains(t, payload, "01130066812345678")
	assert.Contains(t, payload, "5802TH")
	assert.Contains(t, payload, "5303764")
	assert.Contains(t, payload, "5406130.00")

	// 末尾は 6304 + CRC16（16進4桁大文字）
	idx := strings.LastIndex(payload, "6304")
	assert.Equal(t, len(payload)-8, idx)
	crc := payload[idx+4:]
	assert.Len(t, crc, 4)
	assert.Equal(t, strings.ToUpper(crc), crc)
}

func TestBuildPayload_PhoneWithDashes(t *testing.T) {
	a, err := BuildPayload("081-234-5678", 100)
	assert.NoError(t, err)
	b, err := BuildPayload("0812345678", 100)
	assert.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestBuildPayload_NationalID(t *testing.T) {
	payload, err := BuildPayload("1234567890123", 0)
	assert.NoError(t, err)
	assert.Contains(t, payload, "02131234567890123")
	assert.Contains(t, payload, "010211", "金額なしはstatic")
	// 金額フィールドなし：通貨の直後がCRCタグ
	assert.Contains(t, payload, "53037646304")
}

func TestBuildPayload_AmountFormatting(t *testing.T) {
	payload, err := BuildPayload("0812345678", 50)
	assert.NoError(t, err)
	assert.Contains(t, payload, "54040.50")

	payload, err = BuildPayload("0812345678", 999999)
	assert.NoError(t, err)
	assert.Contains(t, payload, "54079999.99")
}

func TestBuildPayload_InvalidTarget(t *testing.T) {
	_, err := BuildPayload("12345", 100)
	assert.Error(t, err)

	_, err = BuildPayload("", 100)
	assert.Error(t, err)
}

func TestEncodeQR(t *testing.T) {
	png, err := EncodeQR("0812345678", 13000)
	assert.NoError(t, err)
	// PNGシグネチャ
	assert.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])

	_, err = EncodeQR("bad", 13000)
	assert.Error(t, err)
}
