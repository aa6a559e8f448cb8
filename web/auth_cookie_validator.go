package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
)

const authCookieName = "auth"

func generateAuthToken(username, secretKey string) string {
	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write([]byte(username))
	signature := mac.Sum(nil)
	token := base64.StdEncoding.EncodeToString([]byte(username)) + "|" + base64.StdEncoding.EncodeToString(signature)
	return token
}

// usernameFromAuthToken verifies token and returns the operator it was issued to.
func usernameFromAuthToken(token, secretKey string) (string, bool) {
	parts := strings.Split(token, "|")
	if len(parts) != 2 {
		return "", false
	}
	usernameBytes, err := base64.StdEncoding.DecodeString(parts[0])
	if err != nil {
		return "", false
	}
	expectedMac, err := base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", false
	}

	mac := hmac.New(sha256.New, []byte(secretKey))
	mac.Write(usernameBytes)
	calculatedMac := mac.Sum(nil)

	if !hmac.Equal(expectedMac, calculatedMac) {
		return "", false
	}
	return string(usernameBytes), true
}

func isValidAuthToken(token, secretKey string) bool {
	_, ok := usernameFromAuthToken(token, secretKey)
	return ok
}

func isAuthenticated(r *http.Request, secretKey string) bool {
	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return false
	}
	return isValidAuthToken(cookie.Value, secretKey)
}
