package qr_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/falahalshidi/shrfa-app/internal/models"
	"github.com/falahalshidi/shrfa-app/internal/qr"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleTicket() models.Ticket {
	return models.Ticket{
		ID:           "t1",
		BookingID:    "b1",
		FestivalID:   "fest-1",
		FestivalName: "مهرجان صحار الترفيهي",
		UserID:       "user-1",
		PurchaseDate: time.Now().UTC(),
		PriceBaisa:   500,
		Barcode:      "1715512340042",
		TicketNumber: "TKT-000042",
	}
}

func TestRenderProducesPNG(t *testing.T) {
	generator := qr.NewGenerator("test-secret")

	png, err := generator.Render(sampleTicket())

	assert.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "expected PNG output")
}

func TestRenderIgnoresEmbeddedImage(t *testing.T) {
	generator := qr.NewGenerator("test-secret")

	plain := sampleTicket()
	withImage := sampleTicket()
	withImage.QRCode = bytes.Repeat([]byte{0xff}, 1<<16)

	// The stored image must not inflate the payload, or encoding would fail
	// once tickets carry their own QR bytes.
	a, err := generator.Render(plain)
	assert.NoError(t, err)
	b, err := generator.Render(withImage)
	assert.NoError(t, err)

	assert.InDelta(t, len(a), len(b), float64(len(a)))
}

func TestRenderAcceptsAnySecretLength(t *testing.T) {
	for _, secret := range []string{"", "short", "a-much-longer-shared-secret-value-for-gate-scanners"} {
		generator := qr.NewGenerator(secret)
		png, err := generator.Render(sampleTicket())
		assert.NoError(t, err)
		assert.NotEmpty(t, png)
	}
}
