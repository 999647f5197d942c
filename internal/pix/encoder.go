package pix

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

var (
	ErrInvalidAmount = errors.New("pix: amount must be a positive number of cents")
	ErrFieldTooLong  = errors.New("pix: field exceeds 99 characters")
)

// BR Code (EMV QR) field identifiers used by the static PIX payload.
const (
	idPayloadFormat       = "00"
	idMerchantAccountInfo = "26"
	idMerchantCategory    = "52"
	idCurrency            = "53"
	idAmount              = "54"
	idCountryCode         = "58"
	idMerchantName        = "59"
	idMerchantCity        = "60"
	idAdditionalData      = "62"
	idCRC                 = "63"

	subIDGUI            = "00"
	subIDKey            = "01"
	subIDReferenceLabel = "05"

	pixGUI      = "br.gov.bcb.pix"
	currencyBRL = "986"
)

type ChargeData struct {
	TxID         string
	AmountCents  int
	Key          string
	MerchantName string
	MerchantCity string
}

// Encode builds the "copia e cola" BR Code payload for a static PIX
// charge. Fields are emitted in fixed order as <id><2-digit length><value>
// and the payload is closed with a CRC16/CCITT-FALSE over everything up to
// and including the "6304" prefix. Same input, same output.
func Encode(data ChargeData) (string, error) {
	if data.AmountCents <= 0 {
		return "", ErrInvalidAmount
	}

	amount := fmt.Sprintf("%d.%02d", data.AmountCents/100, data.AmountCents%100)

	account, err := tlv(subIDGUI, pixGUI)
	if err != nil {
		return "", err
	}
	key, err := tlv(subIDKey, data.Key)
	if err != nil {
		return "", err
	}
	reference, err := tlv(subIDReferenceLabel, data.TxID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, field := range []struct {
		id    string
		value string
	}{
		{idPayloadFormat, "01"},
		{idMerchantAccountInfo, account + key},
		{idMerchantCategory, "0000"},
		{idCurrency, currencyBRL},
		{idAmount, amount},
		{idCountryCode, "BR"},
		{idMerchantName, data.MerchantName},
		{idMerchantCity, data.MerchantCity},
		{idAdditionalData, reference},
	} {
		encoded, err := tlv(field.id, field.value)
		if err != nil {
			return "", err
		}
		b.WriteString(encoded)
	}

	// The CRC covers the payload including its own "6304" tag+length.
	b.WriteString(idCRC + "04")
	payload := b.String()
	return payload + fmt.Sprintf("%04X", crc16(payload)), nil
}

// QRImage renders the payload as a 256px PNG and returns it as a data URI,
// ready to drop into an <img> tag.
func QRImage(payload string) (string, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

func tlv(id, value string) (string, error) {
	if len(value) > 99 {
		return "", fmt.Errorf("%w: field %s has %d characters", ErrFieldTooLong, id, len(value))
	}
	return fmt.Sprintf("%s%02d%s", id, len(value), value), nil
}

// crc16 is CRC16/CCITT-FALSE: polynomial 0x1021, initial value 0xFFFF,
// no reflection, no final xor. Mandated by the BR Code manual.
func crc16(payload string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(payload); i++ {
		crc ^= uint16(payload[i]) << 8
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
