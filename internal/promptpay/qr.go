package promptpay

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePixels = 512

// Encoder はDIで差し替えられるようにした薄いラッパー。
type Encoder struct{}

func (Encoder) EncodeQR(target string, amountSatang int64) ([]byte, error) {
	return EncodeQR(target, amountSatang)
}

// EncodeQR は支払い用QRのPNGを返す。副作用なし。
func EncodeQR(target string, amountSatang int64) ([]byte, error) {
	payload, err := BuildPayload(target, amountSatang)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrSizePixels)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}
