package pix

import (
	"strings"
	"testing"
)

func TestBuildPayloadStructure(t *testing.T) {
	payload := BuildPayload("merchant@example.com", "45,00", "AI PROMPT GEN", "SAO PAULO")

	if !strings.HasPrefix(payload, "000201") {
		t.Fatalf("payload must start with the format indicator, got %q", payload[:6])
	}
	if !strings.Contains(payload, "br.gov.bcb.pix") {
		t.Fatal("payload must carry the PIX GUI")
	}
	if !strings.Contains(payload, "540545.00") {
		t.Fatalf("amount field must use dot decimals, payload=%q", payload)
	}
	if !strings.Contains(payload, "5802BR") {
		t.Fatal("payload must carry the country code")
	}
	if !Validate(payload) {
		t.Fatal("generated payload must carry a valid CRC")
	}
}

func TestBuildPayloadTruncatesMerchantName(t *testing.T) {
	long := strings.Repeat("X", 40)
	payload := BuildPayload("key", "1,00", long, "SAO PAULO")

	if strings.Contains(payload, long) {
		t.Fatal("merchant name must be truncated to 25 characters")
	}
	if !strings.Contains(payload, strings.Repeat("X", 25)) {
		t.Fatal("truncated merchant name missing from payload")
	}
	if !Validate(payload) {
		t.Fatal("payload CRC invalid after truncation")
	}
}

func TestValidateRejectsTampering(t *testing.T) {
	payload := BuildPayload("key", "10,00", "SHOP", "SAO PAULO")

	tampered := strings.Replace(payload, "10.00", "99.00", 1)
	if Validate(tampered) {
		t.Fatal("tampered payload must fail CRC validation")
	}
	if Validate("6304ABCD") {
		t.Fatal("payload without content must not validate")
	}
}

func TestExtractAmountRoundTrip(t *testing.T) {
	cases := []struct {
		display string
		want    float64
	}{
		{"45,00", 45.00},
		{"10,00", 10.00},
		{"80.00", 80.00},
		{"9,90", 9.90},
	}

	for _, tc := range cases {
		payload := BuildPayload("key", tc.display, "SHOP", "SAO PAULO")
		got, err := ExtractAmount(payload)
		if err != nil {
			t.Fatalf("ExtractAmount(%q): %v", tc.display, err)
		}
		if got != tc.want {
			t.Fatalf("ExtractAmount(%q) = %v, want %v", tc.display, got, tc.want)
		}
	}
}

func TestExtractAmountStopsAtFieldBoundary(t *testing.T) {
	// The country field (5802BR) follows the amount directly; its digits
	// must not leak into the parsed value.
	payload := BuildPayload("key", "45,00", "SHOP", "SAO PAULO")
	got, err := ExtractAmount(payload)
	if err != nil {
		t.Fatalf("ExtractAmount: %v", err)
	}
	if got != 45.00 {
		t.Fatalf("ExtractAmount = %v, want 45", got)
	}
}

func TestExtractAmountIgnoresDigitsInMerchantKey(t *testing.T) {
	payload := BuildPayload("key540212", "10,00", "SHOP", "SAO PAULO")
	got, err := ExtractAmount(payload)
	if err != nil {
		t.Fatalf("ExtractAmount: %v", err)
	}
	if got != 10.00 {
		t.Fatalf("ExtractAmount = %v, want 10", got)
	}
}

func TestParseAmountRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "abc", "-5,00", "0"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Fatalf("ParseAmount(%q) must fail", bad)
		}
	}
}
