package server

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
)

// SignPayload computes a Twilio-style webhook signature: HMAC-SHA1 over the
// full webhook URL concatenated with every form parameter as key+value in
// sorted key order, base64-encoded.
func SignPayload(authToken, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	data := fullURL
	for _, k := range keys {
		data += k + form.Get(k)
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks an inbound webhook signature in constant time.
func VerifySignature(authToken, fullURL string, form url.Values, signature string) bool {
	if signature == "" {
		return false
	}
	expected := SignPayload(authToken, fullURL, form)
	return hmac.Equal([]byte(signature), []byte(expected))
}
