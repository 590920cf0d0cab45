package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/golang-jwt/jwt"
	"github.com/nishikaramnani04/PIH2026-SHEield/server/auth/key"
	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength     = 16
	hashIterations = 100000
	hashKeyLength  = 32
)

type SheieldTokenClaims struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	jwt.StandardClaims
}

// HashPassword derives a salted PBKDF2-HMAC-SHA256 digest for the given
// password. A fresh random salt is generated when salt is nil. Both digest
// and salt are returned hex-encoded.
func HashPassword(password string, salt []byte) (string, string, error) {
	if salt == nil {
		salt = make([]byte, saltLength)
		if _, err := rand.Read(salt); err != nil {
			return "", "", fmt.Errorf("unable to generate salt: %v", err)
		}
	}

	digest := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLength, sha256.New)

	return hex.EncodeToString(digest), hex.EncodeToString(salt), nil
}

// CheckPasswordHash re-derives the digest for the candidate password with the
// stored salt and compares it against the stored digest in constant time.
func CheckPasswordHash(storedDigest, storedSalt, password string) bool {
	salt, err := hex.DecodeString(storedSalt)
	if err != nil {
		return false
	}

	expected, err := hex.DecodeString(storedDigest)
	if err != nil {
		return false
	}

	digest := pbkdf2.Key([]byte(password), salt, hashIterations, hashKeyLength, sha256.New)

	return subtle.ConstantTimeCompare(digest, expected) == 1
}

func EncodeJWT(claims SheieldTokenClaims, keyPair *key.KeyPair) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod("RS256"), claims)

	tokenString, err := token.SignedString(keyPair.PrivateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func DecodeJWT(tokenString string, keyPair *key.KeyPair) (*SheieldTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SheieldTokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		// validate the alg is what you expect:
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return keyPair.PublicKey, nil
	})

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid jwt: %v", err)
	}

	tokenClaims, ok := token.Claims.(*SheieldTokenClaims)
	if !ok {
		return nil, fmt.Errorf("unable to assert token.Claims to SheieldTokenClaims")
	}

	return tokenClaims, nil
}
