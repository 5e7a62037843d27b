package user

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/darslyhq/darsly/core"
)

// Password reset tokens are single-use by construction: the signature covers
// the password hash and last login, both of which change once the reset (or a
// login) goes through.

var (
	tokenSalt = []byte("darsly.core.user.token_gen")
	NowFunc   = time.Now // mockable

	// errors
	errInvalidToken = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
)

// EncodeUID base64-encodes the given User's ID for use in reset URLs.
func EncodeUID(usr User) string {
	return base64.RawURLEncoding.EncodeToString([]byte(usr.ID))
}

func decodeUID(uid string) (string, error) {
	idBytes, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return "", err
	}
	return string(idBytes), nil
}

// MakeToken generates a password reset token for the given User.
func MakeToken(usr User) (string, error) {
	return makeTokenAt(usr, NowFunc().UTC())
}

func makeTokenAt(usr User, ts time.Time) (string, error) {
	tsPart := strconv.FormatInt(ts.Unix(), 36)
	sig, err := sign(usr, tsPart)
	if err != nil {
		return "", err
	}
	return tsPart + "." + sig, nil
}

// verifyToken checks a reset token's signature and age against the given User.
func verifyToken(usr User, token string) error {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) < 2 {
		return errInvalidToken
	}

	tsInt, err := strconv.ParseInt(parts[0], 36, 64)
	if err != nil {
		return errInvalidToken
	}
	ts := time.Unix(tsInt, 0).UTC()

	// check that the token has not been tampered with
	expected, err := makeTokenAt(usr, ts)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(expected), []byte(token)) == 0 {
		return errInvalidToken
	}

	if NowFunc().UTC().Sub(ts) > core.Conf.PasswordResetTimeoutDelta {
		return errTokenExpired
	}
	return nil
}

func sign(usr User, tsPart string) (string, error) {
	key := sha256.Sum256(append(tokenSalt, core.Conf.SecretKey...))
	h := hmac.New(sha256.New, key[:])
	for _, part := range [][]byte{[]byte(usr.ID), usr.PasswordHash, []byte(usr.LastLogin.UTC().String()), []byte(tsPart)} {
		if _, err := h.Write(part); err != nil {
			return "", err
		}
	}
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil)), nil
}
