package pix

import (
	"fmt"
	"strings"
)

// EMV field IDs used in a static BR Code payload.
const (
	idPayloadFormat    = "00"
	idMerchantAccount  = "26"
	idMerchantCategory = "52"
	idCurrency         = "53"
	idAmount           = "54"
	idCountry          = "58"
	idMerchantName     = "59"
	idMerchantCity     = "60"
	idCRC              = "63"

	gui = "br.gov.bcb.pix"
)

// BuildPayload assembles a static PIX "copia e cola" BR Code payload.
// amount uses the display format with a comma or dot decimal separator
// (e.g. "45,00"); the payload always carries the dot form.
func BuildPayload(pixKey, amount, merchantName, merchantCity string) string {
	if len(merchantName) > 25 {
		merchantName = merchantName[:25]
	}

	account := formatField("00", gui) + formatField("01", pixKey)

	var b strings.Builder
	b.WriteString(idPayloadFormat + "02" + "01")
	b.WriteString(formatField(idMerchantAccount, account))
	b.WriteString(idMerchantCategory + "04" + "0000")
	b.WriteString(idCurrency + "03" + "986")
	b.WriteString(formatField(idAmount, strings.ReplaceAll(amount, ",", ".")))
	b.WriteString(idCountry + "02" + "BR")
	b.WriteString(formatField(idMerchantName, merchantName))
	b.WriteString(formatField(idMerchantCity, merchantCity))

	payload := b.String()
	return fmt.Sprintf("%s%s04%04X", payload, idCRC, crc16(payload))
}

// Validate reports whether the payload's trailing CRC matches its content.
// The checksum covers everything before the "6304" marker.
func Validate(payload string) bool {
	if len(payload) < 8 {
		return false
	}
	marker := len(payload) - 8
	if payload[marker:marker+4] != idCRC+"04" {
		return false
	}
	return fmt.Sprintf("%04X", crc16(payload[:marker])) == payload[marker+4:]
}

func formatField(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// crc16 implements CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF), the
// checksum mandated by the BR Code specification.
func crc16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for j := 0; j < 8; j++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
