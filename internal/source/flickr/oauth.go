package flickr

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Signer signs requests per OAuth 1.0 with HMAC-SHA1. It is a pure helper:
// it only shapes parameters, the credentials themselves come from config.
type Signer struct {
	ConsumerKey    string
	ConsumerSecret string
	Token          string
	TokenSecret    string
	Verifier       string

	// test seams; default to time.Now and a fresh uuid per request
	Now   func() time.Time
	Nonce func() string
}

// Sign returns params extended with the oauth_* protocol parameters and the
// HMAC-SHA1 signature over the normalized base string.
func (s *Signer) Sign(method, rawURL string, params url.Values) url.Values {
	signed := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			signed.Add(k, v)
		}
	}
	signed.Set("oauth_consumer_key", s.ConsumerKey)
	signed.Set("oauth_token", s.Token)
	signed.Set("oauth_verifier", s.Verifier)
	signed.Set("oauth_signature_method", "HMAC-SHA1")
	signed.Set("oauth_version", "1.0")
	signed.Set("oauth_timestamp", strconv.FormatInt(s.now().Unix(), 10))
	signed.Set("oauth_nonce", s.nonce())

	base := signatureBase(method, rawURL, signed)
	key := percentEncode(s.ConsumerSecret) + "&" + percentEncode(s.TokenSecret)

	mac := hmac.New(sha1.New, []byte(key))
	mac.Write([]byte(base))
	signed.Set("oauth_signature", base64.StdEncoding.EncodeToString(mac.Sum(nil)))

	return signed
}

func (s *Signer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Signer) nonce() string {
	if s.Nonce != nil {
		return s.Nonce()
	}
	return uuid.NewString()
}

// signatureBase builds the RFC 5849 base string: method, request URL and the
// sorted percent-encoded parameters, each percent-encoded again and joined
// with '&'.
func signatureBase(method, rawURL string, params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range params[k] {
			pairs = append(pairs, percentEncode(k)+"="+percentEncode(v))
		}
	}
	normalized := strings.Join(pairs, "&")

	return strings.ToUpper(method) + "&" + percentEncode(rawURL) + "&" + percentEncode(normalized)
}

// percentEncode implements RFC 3986 encoding as OAuth requires it: spaces
// become %20 and only unreserved characters stay literal.
func percentEncode(s string) string {
	const upperhex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9' ||
			c == '-' || c == '.' || c == '_' || c == '~' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&15])
	}
	return b.String()
}
