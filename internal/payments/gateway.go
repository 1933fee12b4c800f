package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
)

// Gateway is a stand-in for a real provider (VNPay/MoMo class). It builds a
// hosted-checkout URL and verifies the signature on the callback, nothing more.
type Gateway struct {
	BaseURL string
	Secret  string
}

func (g *Gateway) CheckoutURL(orderID uuid.UUID, amountCents int64) string {
	q := url.Values{}
	q.Set("order", orderID.String())
	q.Set("amount", strconv.FormatInt(amountCents, 10))
	q.Set("sig", g.sign(q))
	return fmt.Sprintf("%s/checkout?%s", g.BaseURL, q.Encode())
}

// VerifyCallback checks the provider signature over the callback parameters.
func (g *Gateway) VerifyCallback(params url.Values) bool {
	sig := params.Get("sig")
	if sig == "" {
		return false
	}
	cp := url.Values{}
	cp.Set("order", params.Get("order"))
	cp.Set("amount", params.Get("amount"))
	return hmac.Equal([]byte(sig), []byte(g.sign(cp)))
}

func (g *Gateway) sign(params url.Values) string {
	mac := hmac.New(sha256.New, []byte(g.Secret))
	mac.Write([]byte(params.Get("order") + "|" + params.Get("amount")))
	return hex.EncodeToString(mac.Sum(nil))
}
